// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package shapes_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/model3d/gfx/trace"
	"github.com/devblok/model3d/model"
	"github.com/devblok/model3d/shapes"
)

func TestCube(t *testing.T) {
	cube := shapes.Cube(2)
	if len(cube.Positions) != 24 || len(cube.Normals) != 24 || len(cube.Indices) != 36 {
		t.Fatalf("unexpected cube: %d positions, %d normals, %d indices",
			len(cube.Positions), len(cube.Normals), len(cube.Indices))
	}

	faces := map[glm.Vec3]bool{}
	for idx, n := range cube.Normals {
		// Every position lies on the face plane its normal points out of.
		if d := cube.Positions[idx].Dot(n); !glm.FloatEqualThreshold(d, 1, 1e-5) {
			t.Errorf("vertex %d: %v is not on the face of %v", idx, cube.Positions[idx], n)
		}
		key := glm.Vec3{round(n[0]), round(n[1]), round(n[2])}
		faces[key] = true
	}
	if len(faces) != 6 {
		t.Fatalf("expected 6 face normals, got %d", len(faces))
	}

	for tri := 0; tri < len(cube.Indices); tri += 3 {
		a := cube.Positions[cube.Indices[tri]]
		b := cube.Positions[cube.Indices[tri+1]]
		c := cube.Positions[cube.Indices[tri+2]]
		face := b.Sub(a).Cross(c.Sub(a)).Normalize()
		// ApproxEqualThreshold compares against eps² when one side is
		// zero, which rotation noise in the normals never meets.
		if face.Sub(cube.Normals[cube.Indices[tri]]).Len() > 1e-5 {
			t.Errorf("triangle %d winds against its normal", tri/3)
		}
	}
}

func round(f float32) float32 {
	switch {
	case f > 0.5:
		return 1
	case f < -0.5:
		return -1
	}
	return 0
}

func TestTransform(t *testing.T) {
	tri := shapes.Triangle(2).Transform(glm.Translate3D(0, 0, 5))
	if !tri.Positions[0].ApproxEqual(glm.Vec3{0, 1, 5}) {
		t.Fatalf("unexpected position %v", tri.Positions[0])
	}
	if !tri.Normals[0].ApproxEqual(glm.Vec3{0, 0, 1}) {
		t.Fatalf("translation changed the normal to %v", tri.Normals[0])
	}
}

func TestPush(t *testing.T) {
	c := qt.New(t)
	arena := model.NewArena()
	h, err := shapes.Quad(1, 1).Push(arena)
	c.Assert(err, qt.IsNil)

	v := arena.Vertices(h)
	c.Assert(v.Indices().Count(), qt.Equals, uint32(6))
	normal, ok := v.Attr(model.Normal)
	c.Assert(ok, qt.IsTrue)
	c.Assert(normal.ByteOffset(), qt.Equals, uint32(48))
	position, _ := v.Attr(model.Position)
	c.Assert(position.Descriptor().Data(), qt.Equals, normal.Descriptor().Data())

	backend := trace.New(nil)
	arena.Realize(model.NewRealizer(backend))
	c.Assert(backend.Counts(), qt.Equals, trace.Counts{
		Regions:     2,
		Descriptors: 2,
		Accessors:   2,
		Indices:     1,
		Vertices:    1,
	})
}

func TestPushUnindexed(t *testing.T) {
	arena := model.NewArena()
	mesh := shapes.Triangle(1)
	mesh.Indices = nil
	h, err := mesh.Push(arena)
	if err != nil {
		t.Fatal(err)
	}
	if arena.Vertices(h).Indices() != nil {
		t.Fatal("expected unindexed vertices")
	}
}
