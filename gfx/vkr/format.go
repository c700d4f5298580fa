// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"fmt"

	"github.com/devblok/model3d/model"
	vk "github.com/devblok/vulkan"
)

type formatKey struct {
	et    model.ElementType
	count uint32
}

var formats = map[formatKey]vk.Format{
	{model.Float32, 1}: vk.FormatR32Sfloat,
	{model.Float32, 2}: vk.FormatR32g32Sfloat,
	{model.Float32, 3}: vk.FormatR32g32b32Sfloat,
	{model.Float32, 4}: vk.FormatR32g32b32a32Sfloat,

	{model.Float16, 1}: vk.FormatR16Sfloat,
	{model.Float16, 2}: vk.FormatR16g16Sfloat,
	{model.Float16, 3}: vk.FormatR16g16b16Sfloat,
	{model.Float16, 4}: vk.FormatR16g16b16a16Sfloat,

	{model.SInt8, 1}: vk.FormatR8Sint,
	{model.SInt8, 2}: vk.FormatR8g8Sint,
	{model.SInt8, 3}: vk.FormatR8g8b8Sint,
	{model.SInt8, 4}: vk.FormatR8g8b8a8Sint,

	{model.UInt8, 1}: vk.FormatR8Uint,
	{model.UInt8, 2}: vk.FormatR8g8Uint,
	{model.UInt8, 3}: vk.FormatR8g8b8Uint,
	{model.UInt8, 4}: vk.FormatR8g8b8a8Uint,

	{model.SInt16, 1}: vk.FormatR16Sint,
	{model.SInt16, 2}: vk.FormatR16g16Sint,
	{model.SInt16, 3}: vk.FormatR16g16b16Sint,
	{model.SInt16, 4}: vk.FormatR16g16b16a16Sint,

	{model.UInt16, 1}: vk.FormatR16Uint,
	{model.UInt16, 2}: vk.FormatR16g16Uint,
	{model.UInt16, 3}: vk.FormatR16g16b16Uint,
	{model.UInt16, 4}: vk.FormatR16g16b16a16Uint,

	{model.SInt32, 1}: vk.FormatR32Sint,
	{model.SInt32, 2}: vk.FormatR32g32Sint,
	{model.SInt32, 3}: vk.FormatR32g32b32Sint,
	{model.SInt32, 4}: vk.FormatR32g32b32a32Sint,

	{model.UInt32, 1}: vk.FormatR32Uint,
	{model.UInt32, 2}: vk.FormatR32g32Uint,
	{model.UInt32, 3}: vk.FormatR32g32b32Uint,
	{model.UInt32, 4}: vk.FormatR32g32b32a32Uint,
}

// VertexFormat returns the attribute format for count elements of et.
// Matrices are not a single vulkan format and must be split into
// columns by the caller.
func VertexFormat(et model.ElementType, count uint32) (vk.Format, error) {
	f, ok := formats[formatKey{et, count}]
	if !ok {
		return vk.FormatUndefined, fmt.Errorf("no vertex format for %d x %s", count, et)
	}
	return f, nil
}

// IndexType returns the index type used for et. UInt8 indices are
// widened to 16 bits on upload, core vulkan has no 8-bit index type.
func IndexType(et model.ElementType) (vk.IndexType, error) {
	switch et {
	case model.UInt8, model.UInt16:
		return vk.IndexTypeUint16, nil
	case model.UInt32:
		return vk.IndexTypeUint32, nil
	}
	return vk.IndexTypeUint16, fmt.Errorf("%s is not an index type", et)
}

// widenIndices converts 8-bit indices to little endian 16-bit ones.
func widenIndices(data []byte) []byte {
	wide := make([]byte, len(data)*2)
	for idx, b := range data {
		wide[idx*2] = b
	}
	return wide
}
