// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene defines the capabilities the viewer needs from a
// retained-mode 3D scene graph, and provides [Headless], an in-memory
// scene graph that implements them without drawing anything.
//
// Scene mutations must only happen on the frame loop.
package scene

import (
	"cogentcore.org/xrviewer/math32"
	"cogentcore.org/xrviewer/motion"
)

// CameraModel is the asset name of the model shown for each calibrated camera.
const CameraModel = "Camera.glb"

// Node is a transform node in the scene graph.
type Node interface {

	// Name returns the name of the node.
	Name() string

	// Parent returns the parent of the node, or nil for a root.
	Parent() Node

	// SetEnabled sets whether the node and its children are shown.
	SetEnabled(on bool)

	// IsEnabled returns whether the node itself is enabled.
	IsEnabled() bool

	// SetPosition sets the position relative to the parent.
	SetPosition(pos math32.Vector3)

	// SetRotation sets the rotation relative to the parent.
	SetRotation(q math32.Quat)

	// SetScale sets the scale relative to the parent.
	SetScale(scale math32.Vector3)

	// Position returns the position relative to the parent.
	Position() math32.Vector3

	// Rotation returns the rotation relative to the parent.
	Rotation() math32.Quat

	// WorldMatrix returns the transform of the node into world space.
	WorldMatrix() math32.Matrix4

	// Dispose removes the node and all of its children and linked
	// controls from the scene and releases their resources.
	Dispose()

	// IsDisposed returns whether the node has been disposed.
	IsDisposed() bool
}

// Control is a 2D overlay control linked to a node.
type Control interface {
	Name() string
	SetVisible(on bool)
	IsVisible() bool

	// Text returns the text of a label, or "".
	Text() string

	Dispose()
	IsDisposed() bool
}

// Animation is the playback of an animated mesh, measured in frames.
type Animation interface {
	Play()
	Pause()
	IsPlaying() bool
	GoToFrame(frame float64)
	CurrentFrame() float64
}

// Body is an imported, animated body mesh.
type Body interface {
	Node
	Animation() Animation
}

// Scene creates the nodes and controls the viewer composes.
type Scene interface {

	// NewGroup returns a new empty transform node under parent,
	// or a root if parent is nil.
	NewGroup(name string, parent Node) Node

	// NewModel instantiates a known model asset under parent.
	NewModel(asset, name string, parent Node) (Node, error)

	// NewAxes returns a local axes helper of the given size under parent.
	NewAxes(name string, size float32, parent Node) Node

	// NewLabel returns a text label linked to the given node.
	NewLabel(name, text string, link Node) Control

	// NewMarker returns a marker drawn at the given node.
	NewMarker(name string, link Node) Control

	// NewConnector returns a line connecting the given control to a node.
	NewConnector(name string, from Control, link Node) Control

	// NewBody adds a root body mesh for a loaded clip.
	NewBody(clip *motion.Clip) (Body, error)
}
