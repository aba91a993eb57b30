// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit viewer functionality.

// Package math32 is a float32 based vector, quaternion and matrix
// package for the 3D camera and scene transforms of the viewer.
//
// Matrices are stored column-major, as in OpenGL / WebGPU and
// three.js: element (row r, column c) is at index c*N + r.
// Rotation matrices act on column vectors (v' = M·v).
package math32

import (
	"math"

	"github.com/chewxy/math32"
)

// These are mostly just wrappers around chewxy/math32, which has
// some optimized implementations.

// Mathematical constants.
const (
	Pi = math.Pi

	// DegToRadFactor is the number of radians per degree.
	DegToRadFactor = Pi / 180

	// RadToDegFactor is the number of degrees per radian.
	RadToDegFactor = 180 / Pi
)

// DegToRad converts a number from degrees to radians
func DegToRad(degrees float32) float32 {
	return degrees * DegToRadFactor
}

// RadToDeg converts a number from radians to degrees
func RadToDeg(radians float32) float32 {
	return radians * RadToDegFactor
}

// Abs returns the absolute value of x.
func Abs(x float32) float32 { return math32.Abs(x) }

// Sqrt returns the square root of x.
func Sqrt(x float32) float32 { return math32.Sqrt(x) }

// Sin returns the sine of the radian argument x.
func Sin(x float32) float32 { return math32.Sin(x) }

// Cos returns the cosine of the radian argument x.
func Cos(x float32) float32 { return math32.Cos(x) }

// Tan returns the tangent of the radian argument x.
func Tan(x float32) float32 { return math32.Tan(x) }

// Asin returns the arcsine, in radians, of x.
func Asin(x float32) float32 { return math32.Asin(x) }

// Acos returns the arccosine, in radians, of x.
func Acos(x float32) float32 { return math32.Acos(x) }

// Atan2 returns the arc tangent of y/x, using the signs of the two
// to determine the quadrant of the return value.
func Atan2(y, x float32) float32 { return math32.Atan2(y, x) }

// IsNaN reports whether f is an IEEE 754 "not-a-number" value.
func IsNaN(x float32) bool { return math32.IsNaN(x) }

// IsInf reports whether f is an infinity, according to sign.
func IsInf(x float32, sign int) bool { return math32.IsInf(x, sign) }

// Clamp clamps x to the provided closed interval [a, b]
func Clamp(x, a, b float32) float32 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
