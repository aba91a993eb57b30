// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"slices"

	"cogentcore.org/xrviewer/loop"
	"cogentcore.org/xrviewer/math32"
	"cogentcore.org/xrviewer/motion"
)

// Kinds are the kinds of [Object] in a [Headless] scene.
type Kinds int32

const (
	KindGroup Kinds = iota
	KindModel
	KindAxes
	KindBody
)

func (k Kinds) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindModel:
		return "model"
	case KindAxes:
		return "axes"
	case KindBody:
		return "body"
	}
	return fmt.Sprintf("Kinds(%d)", int32(k))
}

// Headless is an in-memory [Scene]. It keeps the full node graph
// and overlay controls, and advances body animations on each frame,
// so that scene composition can run and be inspected without a GPU.
type Headless struct {

	// Assets are the model assets that can be instantiated.
	Assets map[string]bool

	roots    []*Object
	controls []*Widget
}

// NewHeadless returns a new empty scene that knows the [CameraModel] asset.
func NewHeadless() *Headless {
	return &Headless{Assets: map[string]bool{CameraModel: true}}
}

// Object is a node of a [Headless] scene.
type Object struct {
	Kind Kinds

	// Size is the size of an axes helper.
	Size float32

	// Asset is the model asset of a model.
	Asset string

	scene    *Headless
	name     string
	parent   *Object
	children []*Object
	linked   []*Widget
	pos      math32.Vector3
	rot      math32.Quat
	scale    math32.Vector3
	enabled  bool
	disposed bool
	player   *motion.Player
}

// Widget is an overlay control of a [Headless] scene.
type Widget struct {
	Kind string

	// Link is the object the control follows.
	Link *Object

	// From is the control a connector starts at.
	From Control

	scene    *Headless
	name     string
	text     string
	visible  bool
	disposed bool
}

func (sc *Headless) newObject(kind Kinds, name string, parent Node) *Object {
	ob := &Object{Kind: kind, scene: sc, name: name, rot: math32.NewQuatIdentity(), scale: math32.Vec3(1, 1, 1), enabled: true}
	if p, ok := parent.(*Object); ok && p != nil {
		ob.parent = p
		p.children = append(p.children, ob)
	} else {
		sc.roots = append(sc.roots, ob)
	}
	return ob
}

func (sc *Headless) newWidget(kind, name string, link Node) *Widget {
	w := &Widget{Kind: kind, scene: sc, name: name}
	if ob, ok := link.(*Object); ok && ob != nil {
		w.Link = ob
		ob.linked = append(ob.linked, w)
	}
	sc.controls = append(sc.controls, w)
	return w
}

func (sc *Headless) NewGroup(name string, parent Node) Node {
	return sc.newObject(KindGroup, name, parent)
}

func (sc *Headless) NewModel(asset, name string, parent Node) (Node, error) {
	if !sc.Assets[asset] {
		return nil, fmt.Errorf("scene: unknown model asset %q", asset)
	}
	ob := sc.newObject(KindModel, name, parent)
	ob.Asset = asset
	return ob, nil
}

func (sc *Headless) NewAxes(name string, size float32, parent Node) Node {
	ob := sc.newObject(KindAxes, name, parent)
	ob.Size = size
	return ob
}

func (sc *Headless) NewLabel(name, text string, link Node) Control {
	w := sc.newWidget("label", name, link)
	w.text = text
	return w
}

func (sc *Headless) NewMarker(name string, link Node) Control {
	return sc.newWidget("marker", name, link)
}

func (sc *Headless) NewConnector(name string, from Control, link Node) Control {
	w := sc.newWidget("connector", name, link)
	w.From = from
	return w
}

func (sc *Headless) NewBody(clip *motion.Clip) (Body, error) {
	if clip == nil || len(clip.Meshes) == 0 {
		return nil, fmt.Errorf("scene: body has no meshes")
	}
	ob := sc.newObject(KindBody, clip.Name, nil)
	ob.Asset = clip.Path
	ob.player = motion.NewPlayer(clip)
	return ob, nil
}

// OnFrame advances every playing body animation by the frame delta.
func (sc *Headless) OnFrame(f loop.Frame) {
	for _, ob := range sc.roots {
		ob.walk(func(o *Object) {
			if o.player != nil {
				o.player.Advance(f.Delta)
			}
		})
	}
}

// Roots returns the live root objects, in creation order.
func (sc *Headless) Roots() []*Object {
	return slices.Clone(sc.roots)
}

// Root returns the first live root object with the given name, or nil.
func (sc *Headless) Root(name string) *Object {
	for _, ob := range sc.roots {
		if ob.name == name {
			return ob
		}
	}
	return nil
}

// Bodies returns the live body objects.
func (sc *Headless) Bodies() []*Object {
	var bs []*Object
	for _, ob := range sc.roots {
		if ob.Kind == KindBody {
			bs = append(bs, ob)
		}
	}
	return bs
}

// NumObjects returns the number of live objects.
func (sc *Headless) NumObjects() int {
	n := 0
	for _, ob := range sc.roots {
		ob.walk(func(*Object) { n++ })
	}
	return n
}

// Controls returns the live controls with the given name,
// or all of them if name is "".
func (sc *Headless) Controls(name string) []*Widget {
	var ws []*Widget
	for _, w := range sc.controls {
		if name == "" || w.name == name {
			ws = append(ws, w)
		}
	}
	return ws
}

func (ob *Object) walk(fn func(o *Object)) {
	fn(ob)
	for _, c := range ob.children {
		c.walk(fn)
	}
}

func (ob *Object) Name() string { return ob.name }

func (ob *Object) Parent() Node {
	if ob.parent == nil {
		return nil
	}
	return ob.parent
}

// Children returns the live children of the object.
func (ob *Object) Children() []*Object { return slices.Clone(ob.children) }

// Child returns the first child with the given name, or nil.
func (ob *Object) Child(name string) *Object {
	for _, c := range ob.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Linked returns the controls linked to the object.
func (ob *Object) Linked() []*Widget { return slices.Clone(ob.linked) }

func (ob *Object) SetEnabled(on bool) { ob.enabled = on }
func (ob *Object) IsEnabled() bool    { return ob.enabled }

// IsShown returns whether the object and all of its parents are enabled.
func (ob *Object) IsShown() bool {
	for o := ob; o != nil; o = o.parent {
		if !o.enabled {
			return false
		}
	}
	return true
}

func (ob *Object) SetPosition(pos math32.Vector3) { ob.pos = pos }
func (ob *Object) SetRotation(q math32.Quat)      { ob.rot = q }
func (ob *Object) SetScale(scale math32.Vector3)  { ob.scale = scale }
func (ob *Object) Position() math32.Vector3       { return ob.pos }
func (ob *Object) Rotation() math32.Quat          { return ob.rot }

func (ob *Object) WorldMatrix() math32.Matrix4 {
	m := math32.Matrix4{}
	m.SetTransform(ob.pos, ob.rot, ob.scale)
	if ob.parent == nil {
		return m
	}
	pm := ob.parent.WorldMatrix()
	w := math32.Matrix4{}
	w.MulMatrices(&pm, &m)
	return w
}

func (ob *Object) Animation() Animation {
	if ob.player == nil {
		return nil
	}
	return ob.player
}

func (ob *Object) Dispose() {
	if ob.disposed {
		return
	}
	for _, c := range slices.Clone(ob.children) {
		c.Dispose()
	}
	for _, w := range slices.Clone(ob.linked) {
		w.Dispose()
	}
	ob.disposed = true
	ob.player = nil
	if ob.parent != nil {
		ob.parent.children = slices.DeleteFunc(ob.parent.children, func(o *Object) bool { return o == ob })
	} else {
		ob.scene.roots = slices.DeleteFunc(ob.scene.roots, func(o *Object) bool { return o == ob })
	}
}

func (ob *Object) IsDisposed() bool { return ob.disposed }

func (w *Widget) Name() string       { return w.name }
func (w *Widget) Text() string       { return w.text }
func (w *Widget) SetVisible(on bool) { w.visible = on }
func (w *Widget) IsVisible() bool    { return w.visible }
func (w *Widget) IsDisposed() bool   { return w.disposed }

func (w *Widget) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true
	if w.Link != nil {
		w.Link.linked = slices.DeleteFunc(w.Link.linked, func(o *Widget) bool { return o == w })
	}
	w.scene.controls = slices.DeleteFunc(w.scene.controls, func(o *Widget) bool { return o == w })
}
