// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"github.com/devblok/model3d/gfx"
)

// Client types are opaque to this package; a backend chooses what it
// returns for each kind of described object. A nil client is the
// uninitialized value.
type (
	// RegionClient is the resource created for a BufferData,
	// e.g. a GPU buffer holding its bytes.
	RegionClient interface{}

	// DescriptorClient is the resource for a BufferDescriptor: a region
	// bound with a record layout.
	DescriptorClient interface{}

	// AccessorClient is the resource binding one field of a
	// descriptor to a vertex attribute slot.
	AccessorClient interface{}

	// IndexClient is the resource for an index stream.
	IndexClient interface{}

	// VerticesClient is the aggregate resource for a Vertices,
	// e.g. a vertex array object or a pipeline vertex input.
	VerticesClient interface{}
)

// AttrClient pairs an attribute with the client realized for it.
type AttrClient struct {
	Attr   VertexAttr
	Client AccessorClient
}

// Renderable is implemented by rendering backends. It is called only
// from a Realizer, in dependency order, at most once per described
// object. Implementations report their own failures; see the Err
// methods of the backends in gfx.
type Renderable interface {

	// CreateRegionClient creates the resource for the bytes of a BufferData.
	CreateRegionClient(data []byte) RegionClient

	// CreateDescriptorClient creates the resource for a record layout
	// over an already realized region.
	CreateDescriptorClient(region RegionClient, stride uint32, fields []VertexDesc) DescriptorClient

	// CreateAccessorClient binds one field to an attribute. byteOffset
	// is relative to the start of the BufferData.
	CreateAccessorClient(attr VertexAttr, et ElementType, count, byteOffset, stride uint32, desc DescriptorClient) AccessorClient

	// CreateIndexClient creates the resource for an index stream.
	// byteOffset is relative to the start of the BufferData.
	CreateIndexClient(et ElementType, count, byteOffset uint32, region RegionClient) IndexClient

	// CreateVerticesClient aggregates realized parts; indices is nil when
	// the vertices are not indexed, attrs is sorted by attribute.
	CreateVerticesClient(indices IndexClient, attrs []AttrClient) VerticesClient
}

type accessorKey struct {
	accessor *BufferDataAccessor
	attr     VertexAttr
}

// Realizer caches the clients created by one backend. Described objects
// hold no client state themselves, so the same Arena may be realized on
// several backends, each through its own Realizer.
//
// A Realizer is not safe for concurrent use.
type Realizer struct {
	backend Renderable

	regions     map[*BufferData]RegionClient
	descriptors map[*BufferDescriptor]DescriptorClient
	accessors   map[accessorKey]AccessorClient
	indices     map[*BufferIndexAccessor]IndexClient
	vertices    map[*Vertices]VerticesClient

	// order of creation, for Release
	order []interface{}
}

// NewRealizer creates an empty Realizer for backend.
func NewRealizer(backend Renderable) *Realizer {
	return &Realizer{
		backend:     backend,
		regions:     make(map[*BufferData]RegionClient),
		descriptors: make(map[*BufferDescriptor]DescriptorClient),
		accessors:   make(map[accessorKey]AccessorClient),
		indices:     make(map[*BufferIndexAccessor]IndexClient),
		vertices:    make(map[*Vertices]VerticesClient),
	}
}

// Backend returns the backend clients are created with.
func (r *Realizer) Backend() Renderable {
	return r.backend
}

// RealizerCounts is the number of cached clients of each kind.
type RealizerCounts struct {
	Regions     int
	Descriptors int
	Accessors   int
	Indices     int
	Vertices    int
}

// Counts returns how many clients have been created of each kind.
func (r *Realizer) Counts() RealizerCounts {
	return RealizerCounts{
		Regions:     len(r.regions),
		Descriptors: len(r.descriptors),
		Accessors:   len(r.accessors),
		Indices:     len(r.indices),
		Vertices:    len(r.vertices),
	}
}

// RegionClient returns the client of d if it has been realized.
func (r *Realizer) RegionClient(d *BufferData) (RegionClient, bool) {
	c, ok := r.regions[d]
	return c, ok
}

// DescriptorClient returns the client of d if it has been realized.
func (r *Realizer) DescriptorClient(d *BufferDescriptor) (DescriptorClient, bool) {
	c, ok := r.descriptors[d]
	return c, ok
}

// AccessorClient returns the client of a bound to attr if it has been realized.
func (r *Realizer) AccessorClient(a *BufferDataAccessor, attr VertexAttr) (AccessorClient, bool) {
	c, ok := r.accessors[accessorKey{a, attr}]
	return c, ok
}

// IndexClient returns the client of i if it has been realized.
func (r *Realizer) IndexClient(i *BufferIndexAccessor) (IndexClient, bool) {
	c, ok := r.indices[i]
	return c, ok
}

// VerticesClient returns the client of v if it has been realized.
func (r *Realizer) VerticesClient(v *Vertices) (VerticesClient, bool) {
	c, ok := r.vertices[v]
	return c, ok
}

func (r *Realizer) created(c interface{}) {
	r.order = append(r.order, c)
}

// Release releases every created client that implements gfx.Releasable,
// newest first, and forgets all of them. Described objects realized
// afterwards get new clients.
func (r *Realizer) Release() {
	for idx := len(r.order) - 1; idx >= 0; idx-- {
		if rel, ok := r.order[idx].(gfx.Releasable); ok {
			rel.Release()
		}
	}
	r.order = nil
	r.regions = make(map[*BufferData]RegionClient)
	r.descriptors = make(map[*BufferDescriptor]DescriptorClient)
	r.accessors = make(map[accessorKey]AccessorClient)
	r.indices = make(map[*BufferIndexAccessor]IndexClient)
	r.vertices = make(map[*Vertices]VerticesClient)
}
