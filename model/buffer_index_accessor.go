// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// BufferIndexAccessor describes an index stream within a BufferData.
// Backends create a different class of resource for it than for vertex
// data.
type BufferIndexAccessor struct {
	data        *BufferData
	count       uint32
	elementType ElementType
	byteOffset  uint32
}

// NewBufferIndexAccessor creates an accessor of count indices of type et,
// starting at byteOffset within data.
func NewBufferIndexAccessor(data *BufferData, count uint32, et ElementType, byteOffset uint32) (*BufferIndexAccessor, error) {
	if !et.IsIndex() {
		return nil, constructionError("NewBufferIndexAccessor", ErrIndexType, "got %s", et)
	}
	end := uint64(byteOffset) + uint64(count)*uint64(et.ByteLength())
	if end > uint64(data.ByteLength()) {
		return nil, constructionError("NewBufferIndexAccessor", ErrRegionBounds,
			"%d x %s at %d, data #%d", count, et, byteOffset, data.ByteLength())
	}
	return &BufferIndexAccessor{
		data:        data,
		count:       count,
		elementType: et,
		byteOffset:  byteOffset,
	}, nil
}

// MustBufferIndexAccessor is like NewBufferIndexAccessor but panics on error.
func MustBufferIndexAccessor(data *BufferData, count uint32, et ElementType, byteOffset uint32) *BufferIndexAccessor {
	i, err := NewBufferIndexAccessor(data, count, et, byteOffset)
	if err != nil {
		panic(err)
	}
	return i
}

// Data returns the BufferData holding the indices.
func (i *BufferIndexAccessor) Data() *BufferData {
	return i.data
}

// Count returns the number of indices.
func (i *BufferIndexAccessor) Count() uint32 {
	return i.count
}

// ElementType returns the type of each index.
func (i *BufferIndexAccessor) ElementType() ElementType {
	return i.elementType
}

// ByteOffset returns the offset of the first index within the BufferData.
func (i *BufferIndexAccessor) ByteOffset() uint32 {
	return i.byteOffset
}

// ByteLength returns the size of the index stream.
func (i *BufferIndexAccessor) ByteLength() uint32 {
	return i.count * i.elementType.ByteLength()
}

// Bytes returns the bytes of the index stream, without copying.
func (i *BufferIndexAccessor) Bytes() []byte {
	return i.data.Bytes()[i.byteOffset : i.byteOffset+i.ByteLength()]
}

// Realize returns the client for the index stream, realizing its
// BufferData first.
func (i *BufferIndexAccessor) Realize(r *Realizer) IndexClient {
	if c, ok := r.indices[i]; ok {
		return c
	}
	region := i.data.Realize(r)
	c := r.backend.CreateIndexClient(i.elementType, i.count, i.byteOffset, region)
	r.indices[i] = c
	r.created(c)
	Logger().WithFields(logrus.Fields{
		"kind":  "index",
		"type":  i.elementType,
		"count": i.count,
	}).Debug("client created")
	return c
}

func (i *BufferIndexAccessor) String() string {
	return fmt.Sprintf("BufferIndexAccessor{%s:%s #%d@%d}", i.data, i.elementType, i.count, i.byteOffset)
}
