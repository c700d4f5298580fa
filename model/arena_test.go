// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/model3d/model"
)

func TestArenaStability(t *testing.T) {
	arena := model.NewArena()
	first := arena.PushByteBuffer(model.Float32s{1, 2, 3})
	bd := arena.BufferData(first)
	firstByte := &bd.Bytes()[0]

	desc, err := arena.PushDescriptor(first, 0, 0, model.VecDesc(model.Position, model.Float32, 3, 0))
	if err != nil {
		t.Fatal(err)
	}
	d := arena.Descriptor(desc)

	for i := 0; i < 1000; i++ {
		h := arena.PushByteBuffer(model.Float32s{float32(i), 0, 0})
		if _, err := arena.PushDescriptor(h, 0, 0, model.VecDesc(model.Position, model.Float32, 3, 0)); err != nil {
			t.Fatal(err)
		}
	}

	if arena.BufferData(first) != bd {
		t.Fatal("BufferData moved")
	}
	if &arena.BufferData(first).Bytes()[0] != firstByte {
		t.Fatal("bytes moved")
	}
	if arena.Descriptor(desc) != d || d.Data() != bd {
		t.Fatal("descriptor moved")
	}

	counts := arena.Counts()
	if counts.Data != 1001 || counts.Containers != 1001 || counts.Descriptors != 1001 {
		t.Errorf("unexpected counts %+v", counts)
	}
}

func TestArenaHandlesOutOfRange(t *testing.T) {
	c := qt.New(t)
	arena := model.NewArena()
	arena.PushByteBuffer(model.Bytes{1, 2, 3, 4})

	c.Assert(func() { arena.BufferData(1) }, qt.PanicMatches, `model: buffer data index 1 out of range \[0, 1\)`)
	c.Assert(func() { arena.Container(-1) }, qt.PanicMatches, `model: buffer index -1 out of range.*`)
	c.Assert(func() { arena.Descriptor(0) }, qt.PanicMatches, `model: descriptor index 0 out of range.*`)
	c.Assert(func() { arena.DataAccessor(0) }, qt.PanicMatches, `model: data accessor index 0 out of range.*`)
	c.Assert(func() { arena.Indices(0) }, qt.PanicMatches, `model: index accessor index 0 out of range.*`)
	c.Assert(func() { arena.Vertices(0) }, qt.PanicMatches, `model: vertices index 0 out of range.*`)
	c.Assert(arena.Indices(model.NoIndices), qt.IsNil)
}

func TestArenaConstructionErrors(t *testing.T) {
	c := qt.New(t)
	arena := model.NewArena()
	b := arena.PushContainer(model.Bytes{1, 2, 3, 4})

	_, err := arena.PushBufferData(b, 2, 4)
	c.Assert(err, qt.ErrorIs, model.ErrRegionBounds)
	d, err := arena.PushBufferData(b, 0, 4)
	c.Assert(err, qt.IsNil)

	_, err = arena.PushIndexAccessor(d, 1, model.SInt8, 0)
	c.Assert(err, qt.ErrorIs, model.ErrIndexType)
	_, err = arena.PushFieldAccessor(d, 2, model.Float32, 0, 0)
	c.Assert(err, qt.ErrorIs, model.ErrFieldBounds)

	desc, err := arena.PushDescriptor(d, 0, 0)
	c.Assert(err, qt.IsNil)
	_, err = arena.PushDataAccessor(desc, 0)
	c.Assert(err, qt.ErrorIs, model.ErrFieldIndex)
	field, err := arena.AddField(desc, model.ScalarDesc(model.Weights, model.Float32, 0))
	c.Assert(err, qt.IsNil)
	_, err = arena.PushDataAccessor(desc, field)
	c.Assert(err, qt.IsNil)

	c.Assert(arena.Counts(), qt.Equals, model.ArenaCounts{
		Containers:  1,
		Data:        1,
		Descriptors: 1,
		Accessors:   1,
	})
}

func newAccessors(t *testing.T, n int) []*model.BufferDataAccessor {
	data := model.MustBufferData(make(model.Float32s, n*4), 0, 0)
	accs := make([]*model.BufferDataAccessor, n)
	for i := range accs {
		acc, err := model.NewFieldAccessor(data, 4, model.Float32, uint32(i*16), 0)
		if err != nil {
			t.Fatal(err)
		}
		accs[i] = acc
	}
	return accs
}

func TestVerticesAttrOrder(t *testing.T) {
	accs := newAccessors(t, 5)
	attrs := []model.VertexAttr{model.TexCoords1, model.Normal, model.Weights, model.Color}
	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}
	want := []model.VertexAttr{model.Position, model.Normal, model.Color, model.Weights, model.TexCoords1}

	for _, perm := range permutations {
		v := model.NewVertices(nil, accs[0])
		for _, p := range perm {
			v.AddAttr(attrs[p], accs[p+1])
		}
		got := v.Attrs()
		if len(got) != len(want) {
			t.Fatalf("perm %v: expected %d attrs, got %d", perm, len(want), len(got))
		}
		for idx, aa := range got {
			if aa.Attr != want[idx] {
				t.Errorf("perm %v: attr %d is %s, expected %s", perm, idx, aa.Attr, want[idx])
			}
		}
		acc, ok := v.Attr(model.Weights)
		if !ok || acc != accs[3] {
			t.Errorf("perm %v: Weights bound to the wrong accessor", perm)
		}
	}
}

func TestVerticesReplaceAttr(t *testing.T) {
	c := qt.New(t)
	accs := newAccessors(t, 3)
	v := model.NewVertices(nil, accs[0])
	v.AddAttr(model.Normal, accs[1])
	v.AddAttr(model.Normal, accs[2])
	c.Assert(v.NumAttrs(), qt.Equals, 2)
	acc, ok := v.Attr(model.Normal)
	c.Assert(ok, qt.IsTrue)
	c.Assert(acc, qt.Equals, accs[2])

	v.AddAttr(model.Position, accs[1])
	acc, _ = v.Attr(model.Position)
	c.Assert(acc, qt.Equals, accs[1])
	c.Assert(v.NumAttrs(), qt.Equals, 2)

	_, ok = v.Attr(model.Joints)
	c.Assert(ok, qt.IsFalse)
}

func TestVerticesPanics(t *testing.T) {
	c := qt.New(t)
	c.Assert(func() { model.NewVertices(nil, nil) }, qt.PanicMatches, `model: vertices require a position accessor`)
	v := model.NewVertices(nil, newAccessors(t, 1)[0])
	c.Assert(func() { v.AddAttr(model.Normal, nil) }, qt.PanicMatches, `model: nil accessor for Normal`)

	acc := newAccessors(t, 2)[1]
	c.Assert(func() { v.AddAttr(model.VertexAttr(200), acc) }, qt.PanicMatches, `model: unknown vertex attribute: VertexAttr\(200\)`)
	c.Assert(v.NumAttrs(), qt.Equals, 1)

	arena := model.NewArena()
	data := arena.PushByteBuffer(triangle)
	position, err := arena.PushFieldAccessor(data, 3, model.Float32, 0, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(func() {
		arena.PushVertices(model.NoIndices, position, model.AttrHandle{Attr: model.VertexAttr(200), Accessor: position})
	}, qt.PanicMatches, `model: unknown vertex attribute: .*`)
	c.Assert(arena.NumVertices(), qt.Equals, 0)
}

func TestVerticesLayout(t *testing.T) {
	c := qt.New(t)
	arena := model.NewArena()
	floats := arena.PushByteBuffer(triangle)
	indices := arena.PushByteBuffer(model.Uint16s{0, 1, 2})
	position, err := arena.PushFieldAccessor(floats, 3, model.Float32, 0, 0)
	c.Assert(err, qt.IsNil)
	normal, err := arena.PushFieldAccessor(floats, 3, model.Float32, 36, 0)
	c.Assert(err, qt.IsNil)
	idx, err := arena.PushIndexAccessor(indices, 3, model.UInt16, 0)
	c.Assert(err, qt.IsNil)
	v := arena.Vertices(arena.PushVertices(idx, position, model.AttrHandle{Attr: model.Normal, Accessor: normal}))

	layout := v.Layout()
	c.Assert(layout.Indices, qt.DeepEquals, &model.IndexLayout{
		ElementType: "UInt16",
		Count:       3,
		DataLength:  6,
	})
	c.Assert(layout.Attrs, qt.DeepEquals, []model.FieldLayout{
		{Attr: "Position", ElementType: "Float32", Count: 3, Stride: 12, DataLength: 72},
		{Attr: "Normal", ElementType: "Float32", Count: 3, ByteOffset: 36, Stride: 12, DataLength: 72},
	})

	raw, err := json.Marshal(layout)
	c.Assert(err, qt.IsNil)
	c.Assert(string(raw), qt.Contains, `"attr":"Normal"`)

	str := v.String()
	c.Assert(strings.HasPrefix(str, "Vertices:\n  indices: BufferIndexAccessor"), qt.IsTrue, qt.Commentf("%s", str))
	c.Assert(strings.Count(str, "\n"), qt.Equals, 4)
}
