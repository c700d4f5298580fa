// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// BufferDescriptor describes the records laid out in a BufferData: the
// offset of the first record, the stride between records, and the
// fields of each record.
//
// The stride is never less than the extent of the furthest field; it is
// widened whenever a field is added. Fields are never removed, so the
// index returned by AddField stays valid.
type BufferDescriptor struct {
	data       *BufferData
	byteOffset uint32
	stride     uint32
	fields     []VertexDesc
}

// NewBufferDescriptor creates a descriptor over data. A stride of 0 means
// the records are tightly packed.
func NewBufferDescriptor(data *BufferData, byteOffset, stride uint32, fields []VertexDesc) (*BufferDescriptor, error) {
	if byteOffset > data.ByteLength() {
		return nil, constructionError("NewBufferDescriptor", ErrDescriptorOffset,
			"offset %d, data #%d", byteOffset, data.ByteLength())
	}
	desc := &BufferDescriptor{
		data:       data,
		byteOffset: byteOffset,
		stride:     stride,
		fields:     make([]VertexDesc, 0, len(fields)),
	}
	for _, f := range fields {
		if _, err := desc.AddField(f); err != nil {
			return nil, err
		}
	}
	return desc, nil
}

// MustBufferDescriptor is like NewBufferDescriptor but panics on error.
func MustBufferDescriptor(data *BufferData, byteOffset, stride uint32, fields []VertexDesc) *BufferDescriptor {
	d, err := NewBufferDescriptor(data, byteOffset, stride, fields)
	if err != nil {
		panic(err)
	}
	return d
}

// AddField appends a field and returns its index. The field of the first
// record must lie within the BufferData.
func (bd *BufferDescriptor) AddField(field VertexDesc) (int, error) {
	if !field.ElementType().Valid() {
		return 0, constructionError("AddField", ErrElementType, "%s", field)
	}
	if !field.VertexAttr().Valid() {
		return 0, constructionError("AddField", ErrVertexAttr, "%s", field)
	}
	if end := uint64(bd.byteOffset) + uint64(field.end()); end > uint64(bd.data.ByteLength()) {
		return 0, constructionError("AddField", ErrFieldBounds,
			"%s at %d, data #%d", field, bd.byteOffset, bd.data.ByteLength())
	}
	if end := field.end(); end > bd.stride {
		bd.stride = end
	}
	bd.fields = append(bd.fields, field)
	return len(bd.fields) - 1, nil
}

// Data returns the BufferData the descriptor lays records over.
func (bd *BufferDescriptor) Data() *BufferData {
	return bd.data
}

// ByteOffset returns the offset of the first record within the BufferData.
func (bd *BufferDescriptor) ByteOffset() uint32 {
	return bd.byteOffset
}

// Stride returns the byte distance between consecutive records.
func (bd *BufferDescriptor) Stride() uint32 {
	return bd.stride
}

// NumFields returns the number of fields in a record.
func (bd *BufferDescriptor) NumFields() int {
	return len(bd.fields)
}

// Field returns field i. Panics if i is out of range.
func (bd *BufferDescriptor) Field(i int) VertexDesc {
	return bd.fields[i]
}

// Fields returns a copy of the fields in the order they were added.
func (bd *BufferDescriptor) Fields() []VertexDesc {
	fields := make([]VertexDesc, len(bd.fields))
	copy(fields, bd.fields)
	return fields
}

// NumRecords returns how many whole records fit in the BufferData.
func (bd *BufferDescriptor) NumRecords() uint32 {
	if bd.stride == 0 {
		return 0
	}
	remaining := bd.data.ByteLength() - bd.byteOffset
	var extent uint32
	for _, f := range bd.fields {
		if e := f.end(); e > extent {
			extent = e
		}
	}
	if remaining < extent {
		return 0
	}
	return (remaining-extent)/bd.stride + 1
}

// Realize returns the client for the descriptor, realizing its
// BufferData first.
func (bd *BufferDescriptor) Realize(r *Realizer) DescriptorClient {
	if c, ok := r.descriptors[bd]; ok {
		return c
	}
	region := bd.data.Realize(r)
	c := r.backend.CreateDescriptorClient(region, bd.stride, bd.Fields())
	r.descriptors[bd] = c
	r.created(c)
	Logger().WithFields(logrus.Fields{
		"kind":   "descriptor",
		"stride": bd.stride,
		"fields": len(bd.fields),
	}).Debug("client created")
	return c
}

func (bd *BufferDescriptor) String() string {
	fields := make([]string, len(bd.fields))
	for i, f := range bd.fields {
		fields[i] = f.String()
	}
	return fmt.Sprintf("BufferDescriptor{%s @%d+*%d [%s]}", bd.data, bd.byteOffset, bd.stride, strings.Join(fields, ", "))
}
