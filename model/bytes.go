// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/mmap"
)

// ByteContainer is anything that can lend out a contiguous run of bytes.
// The bytes are treated as read-only once a BufferData borrows them.
type ByteContainer interface {

	// ByteLength returns the number of bytes in the container.
	ByteLength() int

	// Bytes returns the borrowed contents; callers must not modify them.
	Bytes() []byte
}

// Bytes is a ByteContainer over a byte slice.
type Bytes []byte

// ByteLength implements ByteContainer.
func (b Bytes) ByteLength() int { return len(b) }

// Bytes implements ByteContainer.
func (b Bytes) Bytes() []byte { return b }

// Float32s is a ByteContainer over float32 data in host byte order.
type Float32s []float32

// ByteLength implements ByteContainer.
func (f Float32s) ByteLength() int { return len(f) * 4 }

// Bytes implements ByteContainer, without copying.
func (f Float32s) Bytes() []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4)
}

// Uint16s is a ByteContainer over uint16 data in host byte order.
type Uint16s []uint16

// ByteLength implements ByteContainer.
func (u Uint16s) ByteLength() int { return len(u) * 2 }

// Bytes implements ByteContainer, without copying.
func (u Uint16s) Bytes() []byte {
	if len(u) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&u[0])), len(u)*2)
}

// Uint32s is a ByteContainer over uint32 data in host byte order.
type Uint32s []uint32

// ByteLength implements ByteContainer.
func (u Uint32s) ByteLength() int { return len(u) * 4 }

// Bytes implements ByteContainer, without copying.
func (u Uint32s) Bytes() []byte {
	if len(u) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&u[0])), len(u)*4)
}

// ReadMappedFile maps the file at path and copies its contents into a
// Bytes container. The mapping is closed before returning.
func ReadMappedFile(path string) (Bytes, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if n, err := r.ReadAt(data, 0); err != nil && n < len(data) {
		return nil, fmt.Errorf("mmap.ReadAt(): %s", err.Error())
	}
	return Bytes(data), nil
}
