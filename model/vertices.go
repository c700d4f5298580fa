// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// AttrAccessor pairs an attribute with the accessor bound to it.
type AttrAccessor struct {
	Attr     VertexAttr
	Accessor *BufferDataAccessor
}

// Vertices is a complete description of a set of vertices: an optional
// index stream plus one accessor per attribute, Position always among
// them. Attributes are kept sorted so that backend layouts come out the
// same on every run.
//
// A Vertices is typically used by the primitives of one or more meshes.
type Vertices struct {
	indices *BufferIndexAccessor
	attrs   []AttrAccessor
}

// NewVertices creates a Vertices with a position accessor and, if
// indices is not nil, an index stream. Panics if position is nil.
func NewVertices(indices *BufferIndexAccessor, position *BufferDataAccessor) *Vertices {
	if position == nil {
		panic("model: vertices require a position accessor")
	}
	return &Vertices{
		indices: indices,
		attrs:   []AttrAccessor{{Attr: Position, Accessor: position}},
	}
}

func (v *Vertices) search(attr VertexAttr) int {
	return sort.Search(len(v.attrs), func(i int) bool {
		return v.attrs[i].Attr >= attr
	})
}

// AddAttr binds accessor to attr, replacing any accessor already bound
// to it. Panics if accessor is nil or attr is not a known attribute.
func (v *Vertices) AddAttr(attr VertexAttr, accessor *BufferDataAccessor) {
	if !attr.Valid() {
		panic(fmt.Sprintf("model: %s: %s", ErrVertexAttr, attr))
	}
	if accessor == nil {
		panic(fmt.Sprintf("model: nil accessor for %s", attr))
	}
	idx := v.search(attr)
	if idx < len(v.attrs) && v.attrs[idx].Attr == attr {
		v.attrs[idx].Accessor = accessor
		return
	}
	v.attrs = append(v.attrs, AttrAccessor{})
	copy(v.attrs[idx+1:], v.attrs[idx:])
	v.attrs[idx] = AttrAccessor{Attr: attr, Accessor: accessor}
}

// Indices returns the index stream, nil if the vertices are not indexed.
func (v *Vertices) Indices() *BufferIndexAccessor {
	return v.indices
}

// Attr returns the accessor bound to attr.
func (v *Vertices) Attr(attr VertexAttr) (*BufferDataAccessor, bool) {
	idx := v.search(attr)
	if idx < len(v.attrs) && v.attrs[idx].Attr == attr {
		return v.attrs[idx].Accessor, true
	}
	return nil, false
}

// NumAttrs returns the number of bound attributes.
func (v *Vertices) NumAttrs() int {
	return len(v.attrs)
}

// Attrs returns a copy of the bound attributes, sorted by attribute.
func (v *Vertices) Attrs() []AttrAccessor {
	attrs := make([]AttrAccessor, len(v.attrs))
	copy(attrs, v.attrs)
	return attrs
}

// Realize realizes the index stream and every attribute, then returns
// the aggregate client, creating it on first use.
func (v *Vertices) Realize(r *Realizer) VerticesClient {
	if c, ok := r.vertices[v]; ok {
		return c
	}
	var indices IndexClient
	if v.indices != nil {
		indices = v.indices.Realize(r)
	}
	attrs := make([]AttrClient, len(v.attrs))
	for idx, aa := range v.attrs {
		attrs[idx] = AttrClient{
			Attr:   aa.Attr,
			Client: aa.Accessor.Realize(aa.Attr, r),
		}
	}
	c := r.backend.CreateVerticesClient(indices, attrs)
	r.vertices[v] = c
	r.created(c)
	Logger().WithFields(logrus.Fields{
		"kind":    "vertices",
		"attrs":   len(attrs),
		"indexed": v.indices != nil,
	}).Debug("client created")
	return c
}

func (v *Vertices) String() string {
	var sb strings.Builder
	sb.WriteString("Vertices:\n")
	if v.indices != nil {
		fmt.Fprintf(&sb, "  indices: %s\n", v.indices)
	} else {
		sb.WriteString("  indices: none\n")
	}
	for _, aa := range v.attrs {
		fmt.Fprintf(&sb, "  %s: %s\n", aa.Attr, aa.Accessor)
	}
	return sb.String()
}
