// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package wgr implements a WebGPU backend over a gogpu hal device.
//
// Every BufferData is uploaded into one GPU buffer usable both as vertex
// and index storage. Each bound attribute is given a vertex buffer slot
// of its own at its offset into that buffer, which keeps attribute
// offsets below the stride as WebGPU demands.
package wgr

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/sirupsen/logrus"

	"github.com/devblok/model3d/model"
)

// ErrMissingClient is reported when a client is built over a dependency
// whose own creation failed.
var ErrMissingClient = errors.New("dependency client is missing")

// ErrBindOffset is reported for attributes whose byte offset cannot be
// used as a vertex buffer offset.
var ErrBindOffset = errors.New("vertex buffer offset must be a multiple of 4")

// Buffer is the region client.
type Buffer struct {
	Buffer hal.Buffer
	// Size is the size of the GPU buffer, padded to 4 bytes.
	Size uint64

	device   hal.Device
	host     []byte
	released bool
}

// Release destroys the GPU buffer.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.device.DestroyBuffer(b.Buffer)
}

// Layout is the descriptor client.
type Layout struct {
	Buffer *Buffer
	Stride uint64
}

// Attribute is the accessor client.
type Attribute struct {
	Layout *Layout
	// Offset is where the attribute's slot is bound within the buffer.
	Offset    uint64
	Attribute gputypes.VertexAttribute
}

// IndexBuffer is the index client.
type IndexBuffer struct {
	Buffer *Buffer
	Format gputypes.IndexFormat
	Offset uint64
	Count  uint32

	owned bool
}

// Release destroys the widened index buffer, if one was created.
func (ib *IndexBuffer) Release() {
	if ib.owned {
		ib.Buffer.Release()
	}
}

// VertexBuffer is one vertex buffer slot of a VertexState.
type VertexBuffer struct {
	Buffer hal.Buffer
	Offset uint64
}

// VertexState is the vertices client.
type VertexState struct {
	// Layouts go into a render pipeline's vertex state, Buffers are
	// bound to the same slots when drawing.
	Layouts []gputypes.VertexBufferLayout
	Buffers []VertexBuffer

	// Index is nil for vertices that are not indexed.
	Index *IndexBuffer
}

// New creates a Backend uploading through queue. A nil log uses
// model.Logger().
func New(device hal.Device, queue hal.Queue, log logrus.FieldLogger) *Backend {
	if log == nil {
		log = model.Logger()
	}
	return &Backend{
		device: device,
		queue:  queue,
		log:    log,
	}
}

// Backend implements model.Renderable. The first failure is kept and
// returned by Err; the client of a failed call is nil.
type Backend struct {
	device hal.Device
	queue  hal.Queue
	log    logrus.FieldLogger

	buffers int
	err     error
}

// Err returns the first error encountered, if any.
func (b *Backend) Err() error {
	return b.err
}

// Buffers returns the number of GPU buffers created.
func (b *Backend) Buffers() int {
	return b.buffers
}

func (b *Backend) fail(err error) {
	b.log.WithError(err).Error("wgpu backend")
	if b.err == nil {
		b.err = err
	}
}

func align4(n uint64) uint64 {
	return (n + 3) &^ 3
}

func (b *Backend) upload(label string, data []byte) (*Buffer, error) {
	size := align4(uint64(len(data)))
	if size == 0 {
		size = 4
	}
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	b.buffers++
	if len(data) > 0 {
		padded := data
		if uint64(len(data)) != size {
			padded = make([]byte, size)
			copy(padded, data)
		}
		b.queue.WriteBuffer(buf, 0, padded)
	}
	return &Buffer{
		Buffer: buf,
		Size:   size,
		device: b.device,
		host:   data,
	}, nil
}

// CreateRegionClient implements model.Renderable.
func (b *Backend) CreateRegionClient(data []byte) model.RegionClient {
	buf, err := b.upload("region", data)
	if err != nil {
		b.fail(err)
		return nil
	}
	b.log.WithFields(logrus.Fields{"bytes": len(data), "size": buf.Size}).Debug("buffer created")
	return buf
}

// CreateDescriptorClient implements model.Renderable.
func (b *Backend) CreateDescriptorClient(region model.RegionClient, stride uint32, fields []model.VertexDesc) model.DescriptorClient {
	buf, _ := region.(*Buffer)
	if buf == nil {
		b.fail(fmt.Errorf("descriptor: %w", ErrMissingClient))
		return nil
	}
	return &Layout{Buffer: buf, Stride: uint64(stride)}
}

// CreateAccessorClient implements model.Renderable.
func (b *Backend) CreateAccessorClient(attr model.VertexAttr, et model.ElementType, count, byteOffset, stride uint32, desc model.DescriptorClient) model.AccessorClient {
	layout, _ := desc.(*Layout)
	if layout == nil {
		b.fail(fmt.Errorf("%s: %w", attr, ErrMissingClient))
		return nil
	}
	format, err := VertexFormat(et, count)
	if err != nil {
		b.fail(fmt.Errorf("%s: %w", attr, err))
		return nil
	}
	// The byte offset becomes the vertex buffer bind offset.
	if byteOffset%4 != 0 {
		b.fail(fmt.Errorf("%s: %w: %d", attr, ErrBindOffset, byteOffset))
		return nil
	}
	return &Attribute{
		Layout: layout,
		Offset: uint64(byteOffset),
		Attribute: gputypes.VertexAttribute{
			Format:         format,
			Offset:         0,
			ShaderLocation: uint32(attr),
		},
	}
}

// CreateIndexClient implements model.Renderable.
func (b *Backend) CreateIndexClient(et model.ElementType, count, byteOffset uint32, region model.RegionClient) model.IndexClient {
	format, err := IndexFormat(et)
	if err != nil {
		b.fail(err)
		return nil
	}
	buf, _ := region.(*Buffer)
	if buf == nil {
		b.fail(fmt.Errorf("index stream: %w", ErrMissingClient))
		return nil
	}
	ib := &IndexBuffer{
		Buffer: buf,
		Format: format,
		Offset: uint64(byteOffset),
		Count:  count,
	}
	if et == model.UInt8 {
		end := uint64(byteOffset) + uint64(count)
		if end > uint64(len(buf.host)) {
			b.fail(fmt.Errorf("%d indices at %d exceed the buffer", count, byteOffset))
			return nil
		}
		wide, err := b.upload("indices", widenIndices(buf.host[byteOffset:end]))
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
	vs := &VertexState{}
	if ib, ok := indices.(*IndexBuffer); ok {
		vs.Index = ib
	}
	for _, ac := range attrs {
		attr, ok := ac.Client.(*Attribute)
		if !ok {
			continue
		}
		vs.Layouts = append(vs.Layouts, gputypes.VertexBufferLayout{
			ArrayStride: attr.Layout.Stride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  []gputypes.VertexAttribute{attr.Attribute},
		})
		vs.Buffers = append(vs.Buffers, VertexBuffer{
			Buffer: attr.Layout.Buffer.Buffer,
			Offset: attr.Offset,
		})
	}
	b.log.WithFields(logrus.Fields{
		"slots":   len(vs.Layouts),
		"indexed": vs.Index != nil,
	}).Debug("vertex state created")
	return vs
}
