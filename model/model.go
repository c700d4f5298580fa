// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package model describes vertex and index data held in host memory and
// binds it lazily to rendering backends.
//
// Data flows ByteContainer -> BufferData -> BufferDescriptor ->
// BufferDataAccessor / BufferIndexAccessor -> Vertices. Described objects
// are immutable views; a Realizer creates one backend client per object,
// realizing dependencies first, so a BufferData shared by many accessors
// gets exactly one region client.
package model

// FieldLayout is the flattened description of one bound attribute.
type FieldLayout struct {
	Attr        string `json:"attr"`
	ElementType string `json:"elementType"`
	Count       uint32 `json:"count"`
	ByteOffset  uint32 `json:"byteOffset"`
	Stride      uint32 `json:"stride"`
	DataOffset  uint32 `json:"dataOffset"`
	DataLength  uint32 `json:"dataLength"`
}

// IndexLayout is the flattened description of an index stream.
type IndexLayout struct {
	ElementType string `json:"elementType"`
	Count       uint32 `json:"count"`
	ByteOffset  uint32 `json:"byteOffset"`
	DataOffset  uint32 `json:"dataOffset"`
	DataLength  uint32 `json:"dataLength"`
}

// VerticesLayout is the flattened description of a Vertices, suitable
// for encoding.
type VerticesLayout struct {
	Indices *IndexLayout  `json:"indices,omitempty"`
	Attrs   []FieldLayout `json:"attrs"`
}

// Layout returns the flattened description of v.
func (v *Vertices) Layout() VerticesLayout {
	var layout VerticesLayout
	if v.indices != nil {
		layout.Indices = &IndexLayout{
			ElementType: v.indices.ElementType().String(),
			Count:       v.indices.Count(),
			ByteOffset:  v.indices.ByteOffset(),
			DataOffset:  v.indices.Data().ByteOffset(),
			DataLength:  v.indices.Data().ByteLength(),
		}
	}
	for _, aa := range v.attrs {
		acc := aa.Accessor
		layout.Attrs = append(layout.Attrs, FieldLayout{
			Attr:        aa.Attr.String(),
			ElementType: acc.ElementType().String(),
			Count:       acc.Count(),
			ByteOffset:  acc.ByteOffset(),
			Stride:      acc.Stride(),
			DataOffset:  acc.Descriptor().Data().ByteOffset(),
			DataLength:  acc.Descriptor().Data().ByteLength(),
		})
	}
	return layout
}
