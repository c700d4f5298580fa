// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"fmt"
)

// Handles identify objects pushed into an Arena. They are small,
// append-only indices and stay valid for the life of the Arena.
type (
	// BufferHandle identifies a ByteContainer.
	BufferHandle int
	// DataHandle identifies a BufferData.
	DataHandle int
	// DescriptorHandle identifies a BufferDescriptor.
	DescriptorHandle int
	// AccessorHandle identifies a BufferDataAccessor.
	AccessorHandle int
	// IndexHandle identifies a BufferIndexAccessor.
	IndexHandle int
	// VerticesHandle identifies a Vertices.
	VerticesHandle int
)

// NoIndices is the IndexHandle of vertices that are not indexed.
const NoIndices IndexHandle = -1

// AttrHandle binds an accessor to an attribute when pushing vertices.
type AttrHandle struct {
	Attr     VertexAttr
	Accessor AccessorHandle
}

// Arena owns every container and described object of a construction
// session. Each entry is allocated on its own, so growing the Arena never
// moves an entry; pointers obtained from the resolvers remain valid as
// long as the Arena is alive.
//
// Handles out of range are programmer errors and panic.
type Arena struct {
	containers  []ByteContainer
	data        []*BufferData
	descriptors []*BufferDescriptor
	indices     []*BufferIndexAccessor
	accessors   []*BufferDataAccessor
	vertices    []*Vertices
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

func checkHandle(kind string, h, n int) {
	if h < 0 || h >= n {
		panic(fmt.Sprintf("model: %s index %d out of range [0, %d)", kind, h, n))
	}
}

// PushContainer adds a ByteContainer.
func (a *Arena) PushContainer(c ByteContainer) BufferHandle {
	a.containers = append(a.containers, c)
	return BufferHandle(len(a.containers) - 1)
}

// PushBufferData adds a BufferData over a pushed container.
func (a *Arena) PushBufferData(b BufferHandle, byteOffset, byteLength uint32) (DataHandle, error) {
	d, err := NewBufferData(a.Container(b), byteOffset, byteLength)
	if err != nil {
		return -1, err
	}
	a.data = append(a.data, d)
	return DataHandle(len(a.data) - 1), nil
}

// PushByteBuffer adds a container and a BufferData covering all of it.
func (a *Arena) PushByteBuffer(c ByteContainer) DataHandle {
	a.data = append(a.data, MustBufferData(c, 0, 0))
	a.PushContainer(c)
	return DataHandle(len(a.data) - 1)
}

// PushDescriptor adds a BufferDescriptor over a pushed BufferData.
func (a *Arena) PushDescriptor(d DataHandle, byteOffset, stride uint32, fields ...VertexDesc) (DescriptorHandle, error) {
	desc, err := NewBufferDescriptor(a.BufferData(d), byteOffset, stride, fields)
	if err != nil {
		return -1, err
	}
	a.descriptors = append(a.descriptors, desc)
	return DescriptorHandle(len(a.descriptors) - 1), nil
}

// AddField appends a field to a pushed descriptor, returning its index.
func (a *Arena) AddField(d DescriptorHandle, field VertexDesc) (int, error) {
	return a.Descriptor(d).AddField(field)
}

// PushDataAccessor adds an accessor for one field of a pushed descriptor.
func (a *Arena) PushDataAccessor(d DescriptorHandle, field int) (AccessorHandle, error) {
	acc, err := NewBufferDataAccessor(a.Descriptor(d), field)
	if err != nil {
		return -1, err
	}
	a.accessors = append(a.accessors, acc)
	return AccessorHandle(len(a.accessors) - 1), nil
}

// PushFieldAccessor adds an accessor over a single-field descriptor of
// its own; see NewFieldAccessor.
func (a *Arena) PushFieldAccessor(d DataHandle, count uint8, et ElementType, byteOffset, stride uint32) (AccessorHandle, error) {
	acc, err := NewFieldAccessor(a.BufferData(d), count, et, byteOffset, stride)
	if err != nil {
		return -1, err
	}
	a.descriptors = append(a.descriptors, acc.Descriptor())
	a.accessors = append(a.accessors, acc)
	return AccessorHandle(len(a.accessors) - 1), nil
}

// PushIndexAccessor adds an index accessor over a pushed BufferData.
func (a *Arena) PushIndexAccessor(d DataHandle, count uint32, et ElementType, byteOffset uint32) (IndexHandle, error) {
	idx, err := NewBufferIndexAccessor(a.BufferData(d), count, et, byteOffset)
	if err != nil {
		return NoIndices, err
	}
	a.indices = append(a.indices, idx)
	return IndexHandle(len(a.indices) - 1), nil
}

// PushVertices adds a Vertices with the given indices (or NoIndices),
// position accessor and further attributes.
func (a *Arena) PushVertices(indices IndexHandle, position AccessorHandle, attrs ...AttrHandle) VerticesHandle {
	v := NewVertices(a.Indices(indices), a.DataAccessor(position))
	for _, ah := range attrs {
		v.AddAttr(ah.Attr, a.DataAccessor(ah.Accessor))
	}
	a.vertices = append(a.vertices, v)
	return VerticesHandle(len(a.vertices) - 1)
}

// Container resolves a BufferHandle.
func (a *Arena) Container(h BufferHandle) ByteContainer {
	checkHandle("buffer", int(h), len(a.containers))
	return a.containers[h]
}

// BufferData resolves a DataHandle.
func (a *Arena) BufferData(h DataHandle) *BufferData {
	checkHandle("buffer data", int(h), len(a.data))
	return a.data[h]
}

// Descriptor resolves a DescriptorHandle.
func (a *Arena) Descriptor(h DescriptorHandle) *BufferDescriptor {
	checkHandle("descriptor", int(h), len(a.descriptors))
	return a.descriptors[h]
}

// DataAccessor resolves an AccessorHandle.
func (a *Arena) DataAccessor(h AccessorHandle) *BufferDataAccessor {
	checkHandle("data accessor", int(h), len(a.accessors))
	return a.accessors[h]
}

// Indices resolves an IndexHandle; NoIndices resolves to nil.
func (a *Arena) Indices(h IndexHandle) *BufferIndexAccessor {
	if h == NoIndices {
		return nil
	}
	checkHandle("index accessor", int(h), len(a.indices))
	return a.indices[h]
}

// Vertices resolves a VerticesHandle.
func (a *Arena) Vertices(h VerticesHandle) *Vertices {
	checkHandle("vertices", int(h), len(a.vertices))
	return a.vertices[h]
}

// NumVertices returns the number of pushed Vertices.
func (a *Arena) NumVertices() int {
	return len(a.vertices)
}

// ArenaCounts is the number of entries of each kind in an Arena.
type ArenaCounts struct {
	Containers  int
	Data        int
	Descriptors int
	Accessors   int
	Indices     int
	Vertices    int
}

// Counts returns the number of entries of each kind.
func (a *Arena) Counts() ArenaCounts {
	return ArenaCounts{
		Containers:  len(a.containers),
		Data:        len(a.data),
		Descriptors: len(a.descriptors),
		Accessors:   len(a.accessors),
		Indices:     len(a.indices),
		Vertices:    len(a.vertices),
	}
}

// Realize realizes every pushed Vertices, in push order, and returns
// their clients.
func (a *Arena) Realize(r *Realizer) []VerticesClient {
	clients := make([]VerticesClient, len(a.vertices))
	for idx, v := range a.vertices {
		clients[idx] = v.Realize(r)
	}
	return clients
}
