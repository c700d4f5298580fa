// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/model3d/gfx/trace"
	"github.com/devblok/model3d/model"
)

var triangle = model.Float32s{
	// positions
	0, 0.5, 0,
	-0.5, -0.5, 0,
	0.5, -0.5, 0,
	// normals
	0, 0, 1,
	0, 0, 1,
	0, 0, 1,
}

func TestRealizeTriangle(t *testing.T) {
	c := qt.New(t)
	arena := model.NewArena()

	floats := arena.PushByteBuffer(triangle)
	indices := arena.PushByteBuffer(model.Bytes{0, 1, 2})

	desc, err := arena.PushDescriptor(floats, 0, 0,
		model.VecDesc(model.Position, model.Float32, 3, 0),
		model.VecDesc(model.Normal, model.Float32, 3, 36),
	)
	c.Assert(err, qt.IsNil)
	position, err := arena.PushDataAccessor(desc, 0)
	c.Assert(err, qt.IsNil)
	normal, err := arena.PushDataAccessor(desc, 1)
	c.Assert(err, qt.IsNil)
	idx, err := arena.PushIndexAccessor(indices, 3, model.UInt8, 0)
	c.Assert(err, qt.IsNil)

	vh := arena.PushVertices(idx, position, model.AttrHandle{Attr: model.Normal, Accessor: normal})

	backend := trace.New(nil)
	r := model.NewRealizer(backend)
	clients := arena.Realize(r)
	c.Assert(clients, qt.HasLen, 1)

	c.Assert(backend.Counts(), qt.DeepEquals, trace.Counts{
		Regions:     2,
		Descriptors: 1,
		Accessors:   2,
		Indices:     1,
		Vertices:    1,
	})
	c.Assert(r.Counts(), qt.DeepEquals, model.RealizerCounts{
		Regions:     2,
		Descriptors: 1,
		Accessors:   2,
		Indices:     1,
		Vertices:    1,
	})

	vc, ok := r.VerticesClient(arena.Vertices(vh))
	c.Assert(ok, qt.IsTrue)
	c.Assert(vc, qt.Equals, clients[0])

	// Dependencies come first, so the vertices client is the last one and
	// links to the index client and both accessors.
	all := backend.Clients()
	last := all[len(all)-1]
	c.Assert(last.Kind, qt.Equals, trace.Vertices)
	c.Assert(last.Parents, qt.HasLen, 3)
	c.Assert(last.Parents[0].Kind, qt.Equals, trace.Index)
	c.Assert(last.Parents[1].Attr, qt.Equals, model.Position)
	c.Assert(last.Parents[2].Attr, qt.Equals, model.Normal)
	c.Assert(last.Parents[1].Parents[0], qt.Equals, last.Parents[2].Parents[0])

	// Realizing again creates nothing.
	arena.Realize(r)
	c.Assert(backend.Counts().Total(), qt.Equals, 7)
}

func TestRealizeIdempotent(t *testing.T) {
	data := model.MustBufferData(triangle, 0, 0)
	desc := model.MustBufferDescriptor(data, 0, 12, []model.VertexDesc{
		model.VecDesc(model.Position, model.Float32, 3, 0),
	})
	acc, err := model.NewBufferDataAccessor(desc, 0)
	if err != nil {
		t.Fatal(err)
	}
	idx := model.MustBufferIndexAccessor(model.MustBufferData(model.Uint32s{0, 1, 2}, 0, 0), 3, model.UInt32, 0)
	v := model.NewVertices(idx, acc)

	tests := []struct {
		name    string
		realize func(r *model.Realizer) interface{}
		want    trace.Counts
	}{
		{"BufferData", func(r *model.Realizer) interface{} { return data.Realize(r) },
			trace.Counts{Regions: 1}},
		{"BufferDescriptor", func(r *model.Realizer) interface{} { return desc.Realize(r) },
			trace.Counts{Regions: 1, Descriptors: 1}},
		{"BufferDataAccessor", func(r *model.Realizer) interface{} { return acc.Realize(model.Position, r) },
			trace.Counts{Regions: 1, Descriptors: 1, Accessors: 1}},
		{"BufferIndexAccessor", func(r *model.Realizer) interface{} { return idx.Realize(r) },
			trace.Counts{Regions: 1, Indices: 1}},
		{"Vertices", func(r *model.Realizer) interface{} { return v.Realize(r) },
			trace.Counts{Regions: 2, Descriptors: 1, Accessors: 1, Indices: 1, Vertices: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := trace.New(nil)
			r := model.NewRealizer(backend)
			first := tt.realize(r)
			for i := 0; i < 3; i++ {
				if again := tt.realize(r); again != first {
					t.Fatalf("realize %d returned %v, expected %v", i, again, first)
				}
			}
			if got := backend.Counts(); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSharedRegion(t *testing.T) {
	data := model.MustBufferData(triangle, 0, 0)
	backend := trace.New(nil)
	r := model.NewRealizer(backend)

	for i := 0; i < 6; i++ {
		acc, err := model.NewFieldAccessor(data, 3, model.Float32, uint32(i*12), 0)
		if err != nil {
			t.Fatal(err)
		}
		acc.Realize(model.Position, r)
	}
	idx := model.MustBufferIndexAccessor(data, 2, model.UInt32, 0)
	idx.Realize(r)

	want := trace.Counts{Regions: 1, Descriptors: 6, Accessors: 6, Indices: 1}
	if got := backend.Counts(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestAccessorPerAttr(t *testing.T) {
	c := qt.New(t)
	data := model.MustBufferData(triangle, 0, 0)
	acc, err := model.NewFieldAccessor(data, 2, model.Float32, 0, 12)
	c.Assert(err, qt.IsNil)

	backend := trace.New(nil)
	r := model.NewRealizer(backend)
	tc0 := acc.Realize(model.TexCoords0, r)
	tc1 := acc.Realize(model.TexCoords1, r)
	c.Assert(tc0, qt.Not(qt.Equals), tc1)
	c.Assert(acc.Realize(model.TexCoords0, r), qt.Equals, tc0)
	c.Assert(backend.Counts(), qt.Equals, trace.Counts{Regions: 1, Descriptors: 1, Accessors: 2})

	got, ok := r.AccessorClient(acc, model.TexCoords1)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, tc1)
	_, ok = r.AccessorClient(acc, model.TexCoords2)
	c.Assert(ok, qt.IsFalse)
}

func TestRealizersAreIndependent(t *testing.T) {
	data := model.MustBufferData(triangle, 0, 0)
	b1, b2 := trace.New(nil), trace.New(nil)
	r1, r2 := model.NewRealizer(b1), model.NewRealizer(b2)

	c1 := data.Realize(r1)
	c2 := data.Realize(r2)
	if c1 == c2 {
		t.Fatal("realizers share a client")
	}
	if b1.Counts().Regions != 1 || b2.Counts().Regions != 1 {
		t.Fatalf("expected one region per backend, got %d and %d", b1.Counts().Regions, b2.Counts().Regions)
	}
}

type nilBackend struct {
	calls int
}

func (b *nilBackend) CreateRegionClient([]byte) model.RegionClient {
	b.calls++
	return nil
}

func (b *nilBackend) CreateDescriptorClient(model.RegionClient, uint32, []model.VertexDesc) model.DescriptorClient {
	b.calls++
	return nil
}

func (b *nilBackend) CreateAccessorClient(model.VertexAttr, model.ElementType, uint32, uint32, uint32, model.DescriptorClient) model.AccessorClient {
	b.calls++
	return nil
}

func (b *nilBackend) CreateIndexClient(model.ElementType, uint32, uint32, model.RegionClient) model.IndexClient {
	b.calls++
	return nil
}

func (b *nilBackend) CreateVerticesClient(model.IndexClient, []model.AttrClient) model.VerticesClient {
	b.calls++
	return nil
}

func TestNilClientIsCached(t *testing.T) {
	data := model.MustBufferData(triangle, 0, 0)
	backend := &nilBackend{}
	r := model.NewRealizer(backend)
	data.Realize(r)
	data.Realize(r)
	if backend.calls != 1 {
		t.Fatalf("expected 1 call, got %d", backend.calls)
	}
	if _, ok := r.RegionClient(data); !ok {
		t.Fatal("nil client was not recorded")
	}
	r.Release()
}

func TestRelease(t *testing.T) {
	c := qt.New(t)
	arena := model.NewArena()
	floats := arena.PushByteBuffer(triangle)
	position, err := arena.PushFieldAccessor(floats, 3, model.Float32, 0, 0)
	c.Assert(err, qt.IsNil)
	vh := arena.PushVertices(model.NoIndices, position)

	backend := trace.New(nil)
	r := model.NewRealizer(backend)
	arena.Realize(r)
	c.Assert(backend.Counts().Total(), qt.Equals, 4)

	r.Release()
	c.Assert(backend.Released(), qt.Equals, 4)
	for _, client := range backend.Clients() {
		c.Assert(client.Released(), qt.IsTrue)
	}
	c.Assert(r.Counts(), qt.Equals, model.RealizerCounts{})

	_, ok := r.VerticesClient(arena.Vertices(vh))
	c.Assert(ok, qt.IsFalse)

	arena.Realize(r)
	c.Assert(backend.Counts().Total(), qt.Equals, 8)
}
