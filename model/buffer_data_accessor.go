// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// BufferDataAccessor is a view of one field of a BufferDescriptor. It is
// what gets bound to a vertex attribute, and it holds no data of its own.
type BufferDataAccessor struct {
	desc  *BufferDescriptor
	field int
}

// NewBufferDataAccessor creates an accessor for field of desc.
func NewBufferDataAccessor(desc *BufferDescriptor, field int) (*BufferDataAccessor, error) {
	if field < 0 || field >= desc.NumFields() {
		return nil, constructionError("NewBufferDataAccessor", ErrFieldIndex,
			"field %d of %d", field, desc.NumFields())
	}
	return &BufferDataAccessor{
		desc:  desc,
		field: field,
	}, nil
}

// NewFieldAccessor creates an accessor over a descriptor of its own with
// a single vector field of count elements, at byteOffset within data.
// A stride of 0 means tightly packed.
func NewFieldAccessor(data *BufferData, count uint8, et ElementType, byteOffset, stride uint32) (*BufferDataAccessor, error) {
	desc, err := NewBufferDescriptor(data, byteOffset, stride, []VertexDesc{
		VecDesc(Position, et, count, 0),
	})
	if err != nil {
		return nil, err
	}
	return NewBufferDataAccessor(desc, 0)
}

// Descriptor returns the descriptor the accessor views.
func (a *BufferDataAccessor) Descriptor() *BufferDescriptor {
	return a.desc
}

// FieldIndex returns the index of the field within the descriptor.
func (a *BufferDataAccessor) FieldIndex() int {
	return a.field
}

// VertexDesc returns the viewed field.
func (a *BufferDataAccessor) VertexDesc() VertexDesc {
	return a.desc.Field(a.field)
}

// VertexAttr returns the attribute recorded in the field. The attribute
// actually bound is the one given to Realize.
func (a *BufferDataAccessor) VertexAttr() VertexAttr {
	return a.VertexDesc().VertexAttr()
}

// ByteOffset returns the offset of the field in the first record,
// relative to the start of the BufferData.
func (a *BufferDataAccessor) ByteOffset() uint32 {
	return uint32(a.VertexDesc().ByteOffset()) + a.desc.ByteOffset()
}

// ElementType returns the element type of the field.
func (a *BufferDataAccessor) ElementType() ElementType {
	return a.VertexDesc().ElementType()
}

// Count returns the number of elements in the field.
func (a *BufferDataAccessor) Count() uint32 {
	return a.VertexDesc().Count()
}

// ByteLength returns the size of the field.
func (a *BufferDataAccessor) ByteLength() uint32 {
	return a.VertexDesc().ByteLength()
}

// Stride returns the stride of the descriptor.
func (a *BufferDataAccessor) Stride() uint32 {
	return a.desc.Stride()
}

// Realize returns the client binding the field to attr, realizing the
// descriptor (and so its BufferData) first.
func (a *BufferDataAccessor) Realize(attr VertexAttr, r *Realizer) AccessorClient {
	key := accessorKey{a, attr}
	if c, ok := r.accessors[key]; ok {
		return c
	}
	desc := a.desc.Realize(r)
	c := r.backend.CreateAccessorClient(attr, a.ElementType(), a.Count(), a.ByteOffset(), a.Stride(), desc)
	r.accessors[key] = c
	r.created(c)
	Logger().WithFields(logrus.Fields{
		"kind":   "accessor",
		"attr":   attr,
		"offset": a.ByteOffset(),
		"stride": a.Stride(),
	}).Debug("client created")
	return c
}

func (a *BufferDataAccessor) String() string {
	return fmt.Sprintf("BufferDataAccessor{%s @%d+*%d}", a.VertexDesc(), a.ByteOffset(), a.Stride())
}
