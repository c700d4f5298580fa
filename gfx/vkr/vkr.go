// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vkr implements the vulkan backend. Every BufferData becomes one
// host visible buffer usable both for vertices and indices; accessors
// become vertex input bindings over it.
package vkr

import (
	"fmt"

	"github.com/devblok/model3d/model"
	vk "github.com/devblok/vulkan"
	"github.com/sirupsen/logrus"
)

// NewBuffer creates, configures, allocates and binds a new buffer.
func NewBuffer(dev vk.Device, size uint, usage vk.BufferUsageFlagBits, mode vk.SharingMode, ma *MemoryAllocator) (*Buffer, error) {
	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: mode,
	}
	var buffer vk.Buffer
	if err := vk.Error(vk.CreateBuffer(dev, &createInfo, nil, &buffer)); err != nil {
		return nil, fmt.Errorf("vk.CreateBuffer(): %s", err.Error())
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dev, buffer, &req)
	req.Deref()

	memory, err := ma.Malloc(req, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		vk.DestroyBuffer(dev, buffer, nil)
		return nil, err
	}

	if err := vk.Error(vk.BindBufferMemory(dev, buffer, memory.Get(), vk.DeviceSize(memory.Offset()))); err != nil {
		vk.DestroyBuffer(dev, buffer, nil)
		memory.Release()
		return nil, fmt.Errorf("vk.BindBufferMemory(): %s", err.Error())
	}

	return &Buffer{
		device: dev,
		buffer: buffer,
		size:   size,
		memory: memory,
	}, nil
}

// Buffer implements a generic vulkan buffer. It is the region client.
type Buffer struct {
	device vk.Device
	buffer vk.Buffer
	size   uint
	// host is the data the buffer was filled from.
	host []byte

	memory   Memory
	released bool
}

// Mem returns the Memory that the buffer is based on.
func (b *Buffer) Mem() *Memory {
	return &b.memory
}

// Get returns the vulkan Buffer handle.
func (b *Buffer) Get() vk.Buffer {
	return b.buffer
}

// Size returns the size the buffer was created with.
func (b *Buffer) Size() uint {
	return b.size
}

// Release destroys the buffer and memory asociated with it.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	vk.DestroyBuffer(b.device, b.buffer, nil)
	b.memory.Release()
}

// Binding is the descriptor client: a buffer with a record stride.
type Binding struct {
	Buffer *Buffer
	Stride uint32
}

// Attribute is the accessor client. Each attribute gets a binding slot
// of its own, bound at Offset into the buffer, so Description.Offset is
// always zero.
type Attribute struct {
	Binding     *Binding
	Offset      vk.DeviceSize
	Description vk.VertexInputAttributeDescription
}

// IndexBuffer is the index client.
type IndexBuffer struct {
	Buffer *Buffer
	Type   vk.IndexType
	Offset vk.DeviceSize
	Count  uint32

	// owned is set when Buffer holds widened indices.
	owned bool
}

// Release releases the widened index buffer, if any.
func (ib *IndexBuffer) Release() {
	if ib.owned {
		ib.Buffer.Release()
	}
}

// VertexInput is the vertices client: everything a pipeline and a
// draw call need to consume the vertices.
type VertexInput struct {
	Bindings   []vk.VertexInputBindingDescription
	Attributes []vk.VertexInputAttributeDescription
	Buffers    []vk.Buffer
	Offsets    []vk.DeviceSize

	// Index is nil for vertices that are not indexed.
	Index *IndexBuffer
}

// PipelineVertexInputState returns the create info for a pipeline
// consuming the vertices.
func (vi *VertexInput) PipelineVertexInputState() vk.PipelineVertexInputStateCreateInfo {
	return vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(vi.Bindings)),
		PVertexBindingDescriptions:      vi.Bindings,
		VertexAttributeDescriptionCount: uint32(len(vi.Attributes)),
		PVertexAttributeDescriptions:    vi.Attributes,
	}
}

// Bind records the vertex and index buffer bindings into cmd.
func (vi *VertexInput) Bind(cmd vk.CommandBuffer) {
	if len(vi.Buffers) > 0 {
		vk.CmdBindVertexBuffers(cmd, 0, uint32(len(vi.Buffers)), vi.Buffers, vi.Offsets)
	}
	if vi.Index != nil {
		vk.CmdBindIndexBuffer(cmd, vi.Index.Buffer.Get(), vi.Index.Offset, vi.Index.Type)
	}
}

// New creates a Backend allocating from ma on dev. A nil log uses
// model.Logger().
func New(dev vk.Device, ma *MemoryAllocator, log logrus.FieldLogger) *Backend {
	if log == nil {
		log = model.Logger()
	}
	return &Backend{
		device:    dev,
		allocator: ma,
		log:       log,
	}
}

// Backend implements model.Renderable. Failures are logged and kept;
// the client of a failed call is nil.
type Backend struct {
	device    vk.Device
	allocator *MemoryAllocator
	log       logrus.FieldLogger
	err       error
}

// Err returns the first error encountered, if any.
func (b *Backend) Err() error {
	return b.err
}

func (b *Backend) fail(err error) {
	b.log.WithError(err).Error("vulkan backend")
	if b.err == nil {
		b.err = err
	}
}

func (b *Backend) upload(data []byte) (*Buffer, error) {
	size := uint(len(data))
	if size == 0 {
		// zero sized buffers are invalid
		size = 4
	}
	buf, err := NewBuffer(b.device, size,
		vk.BufferUsageVertexBufferBit|vk.BufferUsageIndexBufferBit,
		vk.SharingModeExclusive, b.allocator)
	if err != nil {
		return nil, err
	}
	if err := buf.Mem().Write(data); err != nil {
		buf.Release()
		return nil, err
	}
	buf.host = data
	return buf, nil
}

// CreateRegionClient implements model.Renderable.
func (b *Backend) CreateRegionClient(data []byte) model.RegionClient {
	buf, err := b.upload(data)
	if err != nil {
		b.fail(err)
		return nil
	}
	b.log.WithField("bytes", len(data)).Debug("buffer created")
	return buf
}

// CreateDescriptorClient implements model.Renderable.
func (b *Backend) CreateDescriptorClient(region model.RegionClient, stride uint32, fields []model.VertexDesc) model.DescriptorClient {
	buf, _ := region.(*Buffer)
	if buf == nil {
		b.fail(fmt.Errorf("descriptor over a missing buffer"))
		return nil
	}
	return &Binding{Buffer: buf, Stride: stride}
}

// CreateAccessorClient implements model.Renderable.
func (b *Backend) CreateAccessorClient(attr model.VertexAttr, et model.ElementType, count, byteOffset, stride uint32, desc model.DescriptorClient) model.AccessorClient {
	binding, _ := desc.(*Binding)
	if binding == nil {
		b.fail(fmt.Errorf("%s: accessor over a missing binding", attr))
		return nil
	}
	format, err := VertexFormat(et, count)
	if err != nil {
		b.fail(fmt.Errorf("%s: %s", attr, err))
		return nil
	}
	if byteOffset%4 != 0 {
		b.fail(fmt.Errorf("%s: bind offset %d is not a multiple of 4", attr, byteOffset))
		return nil
	}
	return &Attribute{
		Binding: binding,
		Offset:  vk.DeviceSize(byteOffset),
		Description: vk.VertexInputAttributeDescription{
			Location: uint32(attr),
			Format:   format,
		},
	}
}

// CreateIndexClient implements model.Renderable.
func (b *Backend) CreateIndexClient(et model.ElementType, count, byteOffset uint32, region model.RegionClient) model.IndexClient {
	it, err := IndexType(et)
	if err != nil {
		b.fail(err)
		return nil
	}
	buf, _ := region.(*Buffer)
	if buf == nil {
		b.fail(fmt.Errorf("index stream over a missing buffer"))
		return nil
	}
	ib := &IndexBuffer{
		Buffer: buf,
		Type:   it,
		Offset: vk.DeviceSize(byteOffset),
		Count:  count,
	}
	if et == model.UInt8 {
		if uint64(byteOffset)+uint64(count) > uint64(len(buf.host)) {
			b.fail(fmt.Errorf("%d indices at %d exceed the buffer", count, byteOffset))
			return nil
		}
		wide, err := b.upload(widenIndices(buf.host[byteOffset : byteOffset+count]))
		if err != nil {
			b.fail(err)
			return nil
		}
		ib.Buffer, ib.Offset, ib.owned = wide, 0, true
	}
	return ib
}

// CreateVerticesClient implements model.Renderable.
func (b *Backend) CreateVerticesClient(indices model.IndexClient, attrs []model.AttrClient) model.VerticesClient {
	vi := &VertexInput{}
	if ib, ok := indices.(*IndexBuffer); ok {
		vi.Index = ib
	}
	for _, ac := range attrs {
		attr, ok := ac.Client.(*Attribute)
		if !ok {
			continue
		}
		slot := uint32(len(vi.Bindings))
		vi.Bindings = append(vi.Bindings, vk.VertexInputBindingDescription{
			Binding:   slot,
			Stride:    attr.Binding.Stride,
			InputRate: vk.VertexInputRateVertex,
		})
		desc := attr.Description
		desc.Binding = slot
		vi.Attributes = append(vi.Attributes, desc)
		vi.Buffers = append(vi.Buffers, attr.Binding.Buffer.Get())
		vi.Offsets = append(vi.Offsets, attr.Offset)
	}
	b.log.WithFields(logrus.Fields{
		"bindings": len(vi.Bindings),
		"indexed":  vi.Index != nil,
	}).Debug("vertex input created")
	return vi
}
