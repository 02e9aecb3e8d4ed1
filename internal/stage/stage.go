// Package stage is the element tree effects draw into: named containers
// hold elements, composites group parts, and every lookup tolerates
// elements that have already been removed.
package stage

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/tui-cosmos/internal/core"
)

// ErrNoParent is returned when creating an element under a missing parent.
var ErrNoParent = errors.New("stage: parent element not found")

// Stage owns every element of a scene.
type Stage struct {
	seq        ID
	elems      map[ID]*Element
	containers map[string]ID
	order      []ID // Containers in creation order
	width      float64
	height     float64
}

// New creates an empty stage of the given pixel size.
func New(width, height float64) *Stage {
	return &Stage{
		elems:      make(map[ID]*Element),
		containers: make(map[string]ID),
		width:      width,
		height:     height,
	}
}

// Size returns the stage dimensions in pixels.
func (s *Stage) Size() (float64, float64) {
	return s.width, s.height
}

// Resize changes the stage dimensions. Elements are left untouched.
func (s *Stage) Resize(width, height float64) {
	s.width = width
	s.height = height
}

// AddContainer creates a named top-level container drawn at the given z.
// Adding an existing name returns the existing container.
func (s *Stage) AddContainer(name string, z int) ID {
	if id, ok := s.containers[name]; ok {
		return id
	}
	e := s.newElement(KindGroup, 0)
	e.Class = name
	e.Z = z
	s.containers[name] = e.ID
	s.order = append(s.order, e.ID)
	return e.ID
}

// Container returns the id of a named container.
func (s *Stage) Container(name string) (ID, bool) {
	id, ok := s.containers[name]
	return id, ok
}

// Create adds a new element of the given kind as the last child of parent.
func (s *Stage) Create(parent ID, kind Kind) (*Element, error) {
	p, ok := s.elems[parent]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoParent, parent)
	}
	e := s.newElement(kind, parent)
	p.children = append(p.children, e.ID)
	return e, nil
}

func (s *Stage) newElement(kind Kind, parent ID) *Element {
	s.seq++
	e := &Element{
		ID:     s.seq,
		Kind:   kind,
		Parent: parent,
		Props:  DefaultProps(),
	}
	s.elems[e.ID] = e
	return e
}

// Lookup returns the element with the given id.
// Returns false once the element (or an ancestor) has been removed.
func (s *Stage) Lookup(id ID) (*Element, bool) {
	e, ok := s.elems[id]
	return e, ok
}

// Exists reports whether the element is still attached.
func (s *Stage) Exists(id ID) bool {
	_, ok := s.elems[id]
	return ok
}

// Remove detaches an element and its whole subtree.
// Removing a missing element is a no-op.
func (s *Stage) Remove(id ID) {
	e, ok := s.elems[id]
	if !ok {
		return
	}
	if p, ok := s.elems[e.Parent]; ok {
		p.children = removeID(p.children, id)
	}
	for name, cid := range s.containers {
		if cid == id {
			delete(s.containers, name)
			s.order = removeID(s.order, id)
		}
	}
	s.dropSubtree(e)
}

// Clear removes every child of the element, keeping the element itself.
func (s *Stage) Clear(id ID) {
	e, ok := s.elems[id]
	if !ok {
		return
	}
	for _, cid := range e.children {
		if c, ok := s.elems[cid]; ok {
			s.dropSubtree(c)
		}
	}
	e.children = nil
}

func (s *Stage) dropSubtree(e *Element) {
	for _, cid := range e.children {
		if c, ok := s.elems[cid]; ok {
			s.dropSubtree(c)
		}
	}
	e.children = nil
	delete(s.elems, e.ID)
}

// Children returns a copy of the element's child ids in insertion order.
func (s *Stage) Children(id ID) []ID {
	e, ok := s.elems[id]
	if !ok {
		return nil
	}
	out := make([]ID, len(e.children))
	copy(out, e.children)
	return out
}

// Len returns the number of attached elements, containers included.
func (s *Stage) Len() int {
	return len(s.elems)
}

// Placement is an element's resolved on-screen transform.
type Placement struct {
	Pos      core.Vec2 // Pixels from the container origin
	Scale    float64
	Opacity  float64
	Rotation float64
}

// Walk visits every element in draw order: containers by ascending Z,
// siblings by ascending Z then insertion order, parents before children.
func (s *Stage) Walk(fn func(e *Element, at Placement)) {
	roots := make([]*Element, 0, len(s.order))
	for _, id := range s.order {
		if e, ok := s.elems[id]; ok {
			roots = append(roots, e)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].Z < roots[j].Z })

	identity := Placement{Scale: 1, Opacity: 1}
	for _, r := range roots {
		s.walk(r, identity, fn)
	}
}

func (s *Stage) walk(e *Element, parent Placement, fn func(*Element, Placement)) {
	local := e.Position(s.width, s.height)
	sin, cos := math.Sincos(parent.Rotation)
	at := Placement{
		Pos: core.Vec2{
			X: parent.Pos.X + (local.X*cos-local.Y*sin)*parent.Scale,
			Y: parent.Pos.Y + (local.X*sin+local.Y*cos)*parent.Scale,
		},
		Scale:    parent.Scale * e.Props.Get(PropScale) * e.Props.Get(PropPulse),
		Opacity:  parent.Opacity * e.Props.Get(PropOpacity),
		Rotation: parent.Rotation + e.Props.Get(PropRotation),
	}
	fn(e, at)

	kids := make([]*Element, 0, len(e.children))
	for _, cid := range e.children {
		if c, ok := s.elems[cid]; ok {
			kids = append(kids, c)
		}
	}
	sort.SliceStable(kids, func(i, j int) bool { return kids[i].Z < kids[j].Z })
	for _, c := range kids {
		s.walk(c, at, fn)
	}
}

func removeID(ids []ID, id ID) []ID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
