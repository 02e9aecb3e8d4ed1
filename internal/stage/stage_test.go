package stage

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/tui-cosmos/internal/core"
)

func TestCreateAndLookup(t *testing.T) {
	s := New(100, 50)
	root := s.AddContainer("particles", 0)

	e, err := s.Create(root, KindParticle)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	got, ok := s.Lookup(e.ID)
	if !ok || got != e {
		t.Fatal("Lookup() should return the created element")
	}
	if e.Props.Get(PropScale) != 1 || e.Props.Get(PropOpacity) != 1 {
		t.Error("new elements should start at scale 1, opacity 1")
	}

	if _, err := s.Create(ID(999), KindParticle); !errors.Is(err, ErrNoParent) {
		t.Errorf("Create() under missing parent error = %v, expected ErrNoParent", err)
	}
}

func TestAddContainerIsIdempotent(t *testing.T) {
	s := New(10, 10)
	a := s.AddContainer("comets", 1)
	b := s.AddContainer("comets", 5)
	if a != b {
		t.Error("AddContainer with same name should return the same id")
	}
	if id, ok := s.Container("comets"); !ok || id != a {
		t.Error("Container() should find the named container")
	}
	if _, ok := s.Container("missing"); ok {
		t.Error("Container() should not find unknown names")
	}
}

func TestRemoveSubtree(t *testing.T) {
	s := New(100, 100)
	root := s.AddContainer("comets", 0)
	comet, _ := s.Create(root, KindGroup)
	tail, _ := s.Create(comet.ID, KindCometTail)
	head, _ := s.Create(comet.ID, KindCometHead)

	s.Remove(comet.ID)

	for _, id := range []ID{comet.ID, tail.ID, head.ID} {
		if s.Exists(id) {
			t.Errorf("element %d should be removed with its parent", id)
		}
	}
	if len(s.Children(root)) != 0 {
		t.Error("container should have no children after removal")
	}

	// Removing again is a no-op
	s.Remove(comet.ID)
}

func TestClear(t *testing.T) {
	s := New(100, 100)
	root := s.AddContainer("comets", 0)
	for i := 0; i < 5; i++ {
		if _, err := s.Create(root, KindStar); err != nil {
			t.Fatal(err)
		}
	}

	s.Clear(root)
	if !s.Exists(root) {
		t.Error("Clear should keep the container itself")
	}
	if s.Len() != 1 {
		t.Errorf("Len() after Clear = %d, expected 1", s.Len())
	}
}

func TestWalkOrderAndTransform(t *testing.T) {
	s := New(200, 100)
	back := s.AddContainer("back", 0)
	front := s.AddContainer("front", 10)

	// Created front-first, but must draw after back
	f, _ := s.Create(front, KindParticle)
	b, _ := s.Create(back, KindStar)
	b.Relative = true
	b.Anchor = core.Vec2{X: 0.5, Y: 0.5}

	group, _ := s.Create(back, KindGroup)
	group.Anchor = core.Vec2{X: 10, Y: 10}
	group.Props.Set(PropRotation, math.Pi/2)
	group.Props.Set(PropOpacity, 0.5)
	child, _ := s.Create(group.ID, KindCometHead)
	child.Anchor = core.Vec2{X: 5, Y: 0}

	var order []ID
	placements := map[ID]Placement{}
	s.Walk(func(e *Element, at Placement) {
		order = append(order, e.ID)
		placements[e.ID] = at
	})

	if order[len(order)-1] != f.ID {
		t.Errorf("front container's child should draw last, order = %v", order)
	}

	if p := placements[b.ID].Pos; p.X != 100 || p.Y != 50 {
		t.Errorf("relative anchor resolved to %+v, expected {100 50}", p)
	}

	cp := placements[child.ID]
	if math.Abs(cp.Pos.X-10) > 1e-9 || math.Abs(cp.Pos.Y-15) > 1e-9 {
		t.Errorf("rotated child at %+v, expected {10 15}", cp.Pos)
	}
	if cp.Opacity != 0.5 {
		t.Errorf("child opacity = %f, expected inherited 0.5", cp.Opacity)
	}
}

func TestPropsBounds(t *testing.T) {
	p := DefaultProps()
	p.Set(Prop(-1), 5)
	p.Set(propCount, 5)
	if p.Get(Prop(-1)) != 0 || p.Get(propCount) != 0 {
		t.Error("out of range props should read as zero")
	}
}
