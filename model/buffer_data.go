// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/sirupsen/logrus"
)

// BufferData is an immutable, bounds-checked portion of a ByteContainer;
// the backend resource created for it covers exactly that portion.
//
// One BufferData may hold the vertex data of many objects, and be shared
// by many descriptors and index accessors. All of them share a single
// client per Realizer.
type BufferData struct {
	data []byte

	// byteOffset..byteOffset+byteLength lies within data.
	byteOffset uint32
	byteLength uint32
}

// NewBufferData creates a BufferData over container. A zero byteLength
// selects everything from byteOffset to the end of the container.
func NewBufferData(container ByteContainer, byteOffset, byteLength uint32) (*BufferData, error) {
	data := container.Bytes()
	size := uint64(len(data))
	if byteLength == 0 {
		if uint64(byteOffset) > size {
			return nil, constructionError("NewBufferData", ErrRegionBounds,
				"offset %d beyond #%d", byteOffset, size)
		}
		rest := size - uint64(byteOffset)
		if rest > math.MaxUint32 {
			return nil, constructionError("NewBufferData", ErrRegionBounds,
				"#%d from %d does not fit 32 bits", rest, byteOffset)
		}
		byteLength = uint32(rest)
	}
	if uint64(byteOffset)+uint64(byteLength) > size {
		return nil, constructionError("NewBufferData", ErrRegionBounds,
			"%d + #%d, got #%d", byteOffset, byteLength, size)
	}
	return &BufferData{
		data:       data,
		byteOffset: byteOffset,
		byteLength: byteLength,
	}, nil
}

// MustBufferData is like NewBufferData but panics on error.
func MustBufferData(container ByteContainer, byteOffset, byteLength uint32) *BufferData {
	d, err := NewBufferData(container, byteOffset, byteLength)
	if err != nil {
		panic(err)
	}
	return d
}

// ByteOffset returns the offset of the BufferData within its container.
func (d *BufferData) ByteOffset() uint32 {
	return d.byteOffset
}

// ByteLength returns the number of bytes covered.
func (d *BufferData) ByteLength() uint32 {
	return d.byteLength
}

// Bytes returns exactly the covered bytes, without copying.
func (d *BufferData) Bytes() []byte {
	return d.data[d.byteOffset : d.byteOffset+d.byteLength : d.byteOffset+d.byteLength]
}

// Realize returns the client for the BufferData, creating it through
// the Realizer's backend on first use.
func (d *BufferData) Realize(r *Realizer) RegionClient {
	if c, ok := r.regions[d]; ok {
		return c
	}
	c := r.backend.CreateRegionClient(d.Bytes())
	r.regions[d] = c
	r.created(c)
	Logger().WithFields(logrus.Fields{
		"kind":  "region",
		"bytes": d.byteLength,
	}).Debug("client created")
	return c
}

func (d *BufferData) String() string {
	var ptr unsafe.Pointer
	if len(d.data) > 0 {
		ptr = unsafe.Pointer(&d.data[0])
	}
	return fmt.Sprintf("BufferData[%p+%d#%d]", ptr, d.byteOffset, d.byteLength)
}
