// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package shapes builds simple meshes and pushes them into an Arena.
package shapes

import (
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/model3d/model"
)

// Mesh is an indexed triangle list held in host memory.
type Mesh struct {
	Positions []glm.Vec3
	Normals   []glm.Vec3
	Indices   []uint16
}

// Triangle returns a triangle facing +Z, centered on the origin.
func Triangle(size float32) Mesh {
	h := size / 2
	return Mesh{
		Positions: []glm.Vec3{{0, h, 0}, {-h, -h, 0}, {h, -h, 0}},
		Normals:   []glm.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Indices:   []uint16{0, 1, 2},
	}
}

// Quad returns a width by height rectangle facing +Z.
func Quad(width, height float32) Mesh {
	w, h := width/2, height/2
	n := glm.Vec3{0, 0, 1}
	return Mesh{
		Positions: []glm.Vec3{{-w, -h, 0}, {w, -h, 0}, {w, h, 0}, {-w, h, 0}},
		Normals:   []glm.Vec3{n, n, n, n},
		Indices:   []uint16{0, 1, 2, 0, 2, 3},
	}
}

// Cube returns an axis aligned cube with sides of length size. Each face
// has vertices of its own so normals stay flat.
func Cube(size float32) Mesh {
	face := Quad(size, size)
	rotations := []glm.Mat4{
		glm.Ident4(),
		glm.HomogRotate3DY(glm.DegToRad(90)),
		glm.HomogRotate3DY(glm.DegToRad(180)),
		glm.HomogRotate3DY(glm.DegToRad(270)),
		glm.HomogRotate3DX(glm.DegToRad(-90)),
		glm.HomogRotate3DX(glm.DegToRad(90)),
	}
	offset := glm.Translate3D(0, 0, size/2)

	var cube Mesh
	for _, rot := range rotations {
		cube = cube.Append(face.Transform(rot.Mul4(offset)))
	}
	return cube
}

// Transform returns a copy of m with positions transformed by mat and
// normals by its rotation part.
func (m Mesh) Transform(mat glm.Mat4) Mesh {
	normalMat := mat.Mat3().Inv().Transpose()
	out := Mesh{
		Positions: make([]glm.Vec3, len(m.Positions)),
		Normals:   make([]glm.Vec3, len(m.Normals)),
		Indices:   append([]uint16(nil), m.Indices...),
	}
	for idx, p := range m.Positions {
		out.Positions[idx] = mat.Mul4x1(p.Vec4(1)).Vec3()
	}
	for idx, n := range m.Normals {
		out.Normals[idx] = normalMat.Mul3x1(n).Normalize()
	}
	return out
}

// Append returns m followed by o, o's indices rebased.
func (m Mesh) Append(o Mesh) Mesh {
	base := uint16(len(m.Positions))
	out := Mesh{
		Positions: append(append([]glm.Vec3(nil), m.Positions...), o.Positions...),
		Normals:   append(append([]glm.Vec3(nil), m.Normals...), o.Normals...),
		Indices:   append([]uint16(nil), m.Indices...),
	}
	for _, idx := range o.Indices {
		out.Indices = append(out.Indices, idx+base)
	}
	return out
}

// Push stores the mesh in a as one buffer holding all positions then all
// normals, plus an index buffer, and returns the Vertices built over them.
func (m Mesh) Push(a *model.Arena) (model.VerticesHandle, error) {
	floats := make(model.Float32s, 0, 3*(len(m.Positions)+len(m.Normals)))
	for _, p := range m.Positions {
		floats = append(floats, p[0], p[1], p[2])
	}
	for _, n := range m.Normals {
		floats = append(floats, n[0], n[1], n[2])
	}

	data := a.PushByteBuffer(floats)
	position, err := a.PushFieldAccessor(data, 3, model.Float32, 0, 0)
	if err != nil {
		return 0, err
	}
	attrs := []model.AttrHandle{}
	if len(m.Normals) > 0 {
		normal, err := a.PushFieldAccessor(data, 3, model.Float32, uint32(12*len(m.Positions)), 0)
		if err != nil {
			return 0, err
		}
		attrs = append(attrs, model.AttrHandle{Attr: model.Normal, Accessor: normal})
	}

	indices := model.NoIndices
	if len(m.Indices) > 0 {
		indices, err = a.PushIndexAccessor(a.PushByteBuffer(model.Uint16s(m.Indices)), uint32(len(m.Indices)), model.UInt16, 0)
		if err != nil {
			return 0, err
		}
	}
	return a.PushVertices(indices, position, attrs...), nil
}
