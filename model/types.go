// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"fmt"
)

// ElementType is the numeric encoding of one scalar value in a buffer.
type ElementType uint8

// Supported element types. There is no zero-value default on purpose:
// Float32 is simply the first entry.
const (
	Float32 ElementType = iota
	Float16
	SInt8
	SInt16
	SInt32
	UInt8
	UInt16
	UInt32
)

var elementTypeNames = [...]string{
	Float32: "Float32",
	Float16: "Float16",
	SInt8:   "SInt8",
	SInt16:  "SInt16",
	SInt32:  "SInt32",
	UInt8:   "UInt8",
	UInt16:  "UInt16",
	UInt32:  "UInt32",
}

// NewIntType returns the signed or unsigned integer type of the given
// bit width. Panics unless bits is 8, 16 or 32.
func NewIntType(signed bool, bits int) ElementType {
	switch bits {
	case 8:
		if signed {
			return SInt8
		}
		return UInt8
	case 16:
		if signed {
			return SInt16
		}
		return UInt16
	case 32:
		if signed {
			return SInt32
		}
		return UInt32
	}
	panic(fmt.Sprintf("an int element type must be 8, 16 or 32 bits, got %d", bits))
}

// ByteLength returns the size in bytes of one element.
func (et ElementType) ByteLength() uint32 {
	switch et {
	case Float32, SInt32, UInt32:
		return 4
	case Float16, SInt16, UInt16:
		return 2
	case SInt8, UInt8:
		return 1
	}
	return 0
}

// IsIndex reports whether the type may be used for an index stream.
func (et ElementType) IsIndex() bool {
	return et == UInt8 || et == UInt16 || et == UInt32
}

// Valid reports whether et is one of the declared element types.
func (et ElementType) Valid() bool {
	return int(et) < len(elementTypeNames)
}

func (et ElementType) String() string {
	if !et.Valid() {
		return fmt.Sprintf("ElementType(%d)", uint8(et))
	}
	return elementTypeNames[et]
}

// VertexAttr is the semantic role of a vertex field. A vertex always
// has a Position; every other attribute is optional. The declaration
// order is the order attributes are laid out in a Vertices.
type VertexAttr uint8

// Vertex attributes, in layout order.
const (
	Position VertexAttr = iota
	Normal
	Color
	Tangent
	Joints
	Weights
	TexCoords0
	TexCoords1
	TexCoords2
	numVertexAttrs
)

var vertexAttrNames = [...]string{
	Position:   "Position",
	Normal:     "Normal",
	Color:      "Color",
	Tangent:    "Tangent",
	Joints:     "Joints",
	Weights:    "Weights",
	TexCoords0: "TexCoords0",
	TexCoords1: "TexCoords1",
	TexCoords2: "TexCoords2",
}

// VertexAttrs returns every attribute in layout order.
func VertexAttrs() []VertexAttr {
	attrs := make([]VertexAttr, numVertexAttrs)
	for i := range attrs {
		attrs[i] = VertexAttr(i)
	}
	return attrs
}

// ParseVertexAttr maps an attribute name, as returned by String, back to
// its VertexAttr.
func ParseVertexAttr(name string) (VertexAttr, bool) {
	for i, n := range vertexAttrNames {
		if n == name {
			return VertexAttr(i), true
		}
	}
	return 0, false
}

// Valid reports whether a is one of the declared attributes.
func (a VertexAttr) Valid() bool {
	return a < numVertexAttrs
}

func (a VertexAttr) String() string {
	if !a.Valid() {
		return fmt.Sprintf("VertexAttr(%d)", uint8(a))
	}
	return vertexAttrNames[a]
}

// VertexDesc describes one field of a vertex record: a scalar, vector or
// matrix of an ElementType, at a byte offset within the record, used for
// a VertexAttr.
type VertexDesc struct {
	attr        VertexAttr
	byteOffset  uint16
	dims        [2]uint8
	elementType ElementType
}

// ScalarDesc creates a scalar field.
func ScalarDesc(attr VertexAttr, et ElementType, byteOffset uint16) VertexDesc {
	return VertexDesc{attr: attr, byteOffset: byteOffset, elementType: et}
}

// VecDesc creates a vector field of n elements.
func VecDesc(attr VertexAttr, et ElementType, n uint8, byteOffset uint16) VertexDesc {
	return VertexDesc{attr: attr, byteOffset: byteOffset, dims: [2]uint8{n, 0}, elementType: et}
}

// MatDesc creates a matrix field, e.g. dims {4, 4} for a Mat4.
func MatDesc(attr VertexAttr, et ElementType, dims [2]uint8, byteOffset uint16) VertexDesc {
	return VertexDesc{attr: attr, byteOffset: byteOffset, dims: dims, elementType: et}
}

// VertexAttr returns the attribute the field is for.
func (vd VertexDesc) VertexAttr() VertexAttr {
	return vd.attr
}

// ByteOffset returns the offset of the field within its record.
func (vd VertexDesc) ByteOffset() uint16 {
	return vd.byteOffset
}

// Dims returns the dimensions; {0, 0} for a scalar, {n, 0} for a vector.
func (vd VertexDesc) Dims() [2]uint8 {
	return vd.dims
}

// ElementType returns the type of each element of the field.
func (vd VertexDesc) ElementType() ElementType {
	return vd.elementType
}

// Count returns the number of elements in the field.
func (vd VertexDesc) Count() uint32 {
	switch {
	case vd.dims[0] == 0:
		return 1
	case vd.dims[1] == 0:
		return uint32(vd.dims[0])
	}
	return uint32(vd.dims[0]) * uint32(vd.dims[1])
}

// ByteLength returns the size of the field in bytes.
func (vd VertexDesc) ByteLength() uint32 {
	return vd.Count() * vd.elementType.ByteLength()
}

// end is the first byte past the field within its record.
func (vd VertexDesc) end() uint32 {
	return uint32(vd.byteOffset) + vd.ByteLength()
}

func (vd VertexDesc) String() string {
	switch {
	case vd.dims[0] == 0:
		return fmt.Sprintf("VertexDesc{%s: %s @ %d}", vd.attr, vd.elementType, vd.byteOffset)
	case vd.dims[1] == 0:
		return fmt.Sprintf("VertexDesc{%s: %s[%d] @ %d}", vd.attr, vd.elementType, vd.dims[0], vd.byteOffset)
	}
	return fmt.Sprintf("VertexDesc{%s: %s[%d, %d] @ %d}", vd.attr, vd.elementType, vd.dims[0], vd.dims[1], vd.byteOffset)
}
