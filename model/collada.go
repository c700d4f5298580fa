// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"errors"
	"fmt"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/devblok/model3d/util/collada"
)

// ErrNoGeometry is returned for documents without triangle data.
var ErrNoGeometry = errors.New("collada: no triangles found")

// colladaStride is the record size of imported vertices: a position
// followed by a normal.
const colladaStride = 24

type cornerKey struct {
	position, normal int
}

// ImportCollada reads a Collada (.dae) document and pushes one Vertices
// per triangle group into a. Vertices are de-indexed into a single
// interleaved position/normal buffer per group, shared corners being
// merged; indices are 16 bits wide when they fit. Groups without normals
// get flat face normals.
//
// The whole document is decoded and checked before anything is pushed,
// so a failed import leaves a unchanged.
func ImportCollada(a *Arena, fileContents []byte) ([]VerticesHandle, error) {
	doc, err := collada.Parse(fileContents)
	if err != nil {
		return nil, err
	}

	var groups []*colladaGroup
	for _, geom := range doc.Geometries {
		mesh := &geom.Mesh
		for idx := range mesh.Triangles {
			g, err := decodeTriangles(mesh, &mesh.Triangles[idx])
			if err != nil {
				return nil, fmt.Errorf("%s: %s", geom.ID, err)
			}
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return nil, ErrNoGeometry
	}

	handles := make([]VerticesHandle, len(groups))
	for idx, g := range groups {
		h, err := g.push(a)
		if err != nil {
			// decodeTriangles checked every group
			return nil, err
		}
		handles[idx] = h
	}
	return handles, nil
}

// colladaGroup is one decoded triangle group, ready to be pushed.
type colladaGroup struct {
	material  string
	floats    Float32s
	indexData ByteContainer
	indexType ElementType
	count     uint32
}

// check builds the group's description outside of any arena.
func (g *colladaGroup) check() error {
	data, err := NewBufferData(g.floats, 0, 0)
	if err != nil {
		return err
	}
	desc, err := NewBufferDescriptor(data, 0, colladaStride, g.fields())
	if err != nil {
		return err
	}
	for field := 0; field < desc.NumFields(); field++ {
		if _, err := NewBufferDataAccessor(desc, field); err != nil {
			return err
		}
	}
	indexData, err := NewBufferData(g.indexData, 0, 0)
	if err != nil {
		return err
	}
	_, err = NewBufferIndexAccessor(indexData, g.count, g.indexType, 0)
	return err
}

func (g *colladaGroup) fields() []VertexDesc {
	return []VertexDesc{
		VecDesc(Position, Float32, 3, 0),
		VecDesc(Normal, Float32, 3, 12),
	}
}

func (g *colladaGroup) push(a *Arena) (VerticesHandle, error) {
	vertexData := a.PushByteBuffer(g.floats)
	desc, err := a.PushDescriptor(vertexData, 0, colladaStride, g.fields()...)
	if err != nil {
		return 0, err
	}
	posAcc, err := a.PushDataAccessor(desc, 0)
	if err != nil {
		return 0, err
	}
	normAcc, err := a.PushDataAccessor(desc, 1)
	if err != nil {
		return 0, err
	}
	idxAcc, err := a.PushIndexAccessor(a.PushByteBuffer(g.indexData), g.count, g.indexType, 0)
	if err != nil {
		return 0, err
	}

	Logger().WithFields(logrus.Fields{
		"material": g.material,
		"vertices": len(g.floats) / 6,
		"indices":  g.count,
	}).Debug("collada triangles imported")

	return a.PushVertices(idxAcc, posAcc, AttrHandle{Attr: Normal, Accessor: normAcc}), nil
}

func decodeTriangles(mesh *collada.Mesh, tris *collada.Triangles) (*colladaGroup, error) {
	vertex, ok := tris.Input("VERTEX")
	if !ok {
		return nil, errors.New("triangles without a VERTEX input")
	}
	positions, err := mesh.FindSource(vertex.Source)
	if err != nil {
		return nil, err
	}
	var normals *collada.Source
	normal, hasNormals := tris.Input("NORMAL")
	if hasNormals {
		if normals, err = mesh.FindSource(normal.Source); err != nil {
			return nil, err
		}
	}

	stride := tris.Stride()
	if stride == 0 || len(tris.Index)%(stride*3) != 0 {
		return nil, fmt.Errorf("%d indices do not form whole triangles", len(tris.Index))
	}

	var (
		floats  Float32s
		indices []uint32
		corners = make(map[cornerKey]uint32)
	)
	vec3 := func(src *collada.Source, idx int) (glm.Vec3, error) {
		el, err := src.Element(idx)
		if err != nil {
			return glm.Vec3{}, err
		}
		if len(el) < 3 {
			return glm.Vec3{}, fmt.Errorf("%s: elements of %d floats", src.ID, len(el))
		}
		return glm.Vec3{el[0], el[1], el[2]}, nil
	}
	emit := func(pos, norm glm.Vec3) uint32 {
		floats = append(floats, pos[0], pos[1], pos[2], norm[0], norm[1], norm[2])
		return uint32(len(floats)/6 - 1)
	}

	for tri := 0; tri < len(tris.Index)/stride; tri += 3 {
		var (
			pos  [3]glm.Vec3
			keys [3]cornerKey
		)
		for c := 0; c < 3; c++ {
			p := tris.Index[(tri+c)*stride:]
			keys[c].position = p[vertex.Offset]
			if pos[c], err = vec3(positions, keys[c].position); err != nil {
				return nil, err
			}
			keys[c].normal = -1
			if hasNormals {
				keys[c].normal = p[normal.Offset]
			}
		}
		if !hasNormals {
			face := pos[1].Sub(pos[0]).Cross(pos[2].Sub(pos[0]))
			if face.Len() > 0 {
				face = face.Normalize()
			}
			for c := 0; c < 3; c++ {
				indices = append(indices, emit(pos[c], face))
			}
			continue
		}
		for c := 0; c < 3; c++ {
			if idx, ok := corners[keys[c]]; ok {
				indices = append(indices, idx)
				continue
			}
			norm, err := vec3(normals, keys[c].normal)
			if err != nil {
				return nil, err
			}
			idx := emit(pos[c], norm)
			corners[keys[c]] = idx
			indices = append(indices, idx)
		}
	}

	if len(indices) == 0 {
		return nil, ErrNoGeometry
	}
	g := &colladaGroup{
		material: tris.Material,
		floats:   floats,
		count:    uint32(len(indices)),
	}
	if len(floats)/6 <= 1<<16 {
		narrow := make(Uint16s, len(indices))
		for i, idx := range indices {
			narrow[i] = uint16(idx)
		}
		g.indexData, g.indexType = narrow, NewIntType(false, 16)
	} else {
		g.indexData, g.indexType = Uint32s(indices), NewIntType(false, 32)
	}
	return g, g.check()
}
