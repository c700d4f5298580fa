// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package wgr

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/devblok/model3d/model"
)

type formatKey struct {
	et    model.ElementType
	count uint32
}

// WebGPU has no three element formats below 32 bits, nor single 8 or
// 16 bit ones.
var formats = map[formatKey]gputypes.VertexFormat{
	{model.Float32, 1}: gputypes.VertexFormatFloat32,
	{model.Float32, 2}: gputypes.VertexFormatFloat32x2,
	{model.Float32, 3}: gputypes.VertexFormatFloat32x3,
	{model.Float32, 4}: gputypes.VertexFormatFloat32x4,

	{model.Float16, 2}: gputypes.VertexFormatFloat16x2,
	{model.Float16, 4}: gputypes.VertexFormatFloat16x4,

	{model.SInt8, 2}: gputypes.VertexFormatSint8x2,
	{model.SInt8, 4}: gputypes.VertexFormatSint8x4,
	{model.UInt8, 2}: gputypes.VertexFormatUint8x2,
	{model.UInt8, 4}: gputypes.VertexFormatUint8x4,

	{model.SInt16, 2}: gputypes.VertexFormatSint16x2,
	{model.SInt16, 4}: gputypes.VertexFormatSint16x4,
	{model.UInt16, 2}: gputypes.VertexFormatUint16x2,
	{model.UInt16, 4}: gputypes.VertexFormatUint16x4,

	{model.SInt32, 1}: gputypes.VertexFormatSint32,
	{model.SInt32, 2}: gputypes.VertexFormatSint32x2,
	{model.SInt32, 3}: gputypes.VertexFormatSint32x3,
	{model.SInt32, 4}: gputypes.VertexFormatSint32x4,
	{model.UInt32, 1}: gputypes.VertexFormatUint32,
	{model.UInt32, 2}: gputypes.VertexFormatUint32x2,
	{model.UInt32, 3}: gputypes.VertexFormatUint32x3,
	{model.UInt32, 4}: gputypes.VertexFormatUint32x4,
}

// VertexFormat returns the vertex format for count elements of et.
func VertexFormat(et model.ElementType, count uint32) (gputypes.VertexFormat, error) {
	f, ok := formats[formatKey{et, count}]
	if !ok {
		return f, fmt.Errorf("no vertex format for %d x %s", count, et)
	}
	return f, nil
}

// IndexFormat returns the index format used for et. UInt8 indices are
// widened to 16 bits on upload.
func IndexFormat(et model.ElementType) (gputypes.IndexFormat, error) {
	switch et {
	case model.UInt8, model.UInt16:
		return gputypes.IndexFormatUint16, nil
	case model.UInt32:
		return gputypes.IndexFormatUint32, nil
	}
	return gputypes.IndexFormatUint16, fmt.Errorf("%s is not an index type", et)
}

func widenIndices(data []byte) []byte {
	wide := make([]byte, len(data)*2)
	for idx, b := range data {
		wide[idx*2] = b
	}
	return wide
}
