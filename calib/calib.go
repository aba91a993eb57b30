// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package calib parses the camera calibration files a user uploads,
// one JSON object per camera.
package calib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"cogentcore.org/xrviewer/base/errors"
)

// Conventions name the axis convention of a calibrated camera.
type Conventions string

// OpenCV is the convention of cameras looking down +Z with +Y down,
// which needs a half turn about Z to match the viewer's camera model.
const OpenCV Conventions = "opencv"

// Record is one parsed camera calibration.
type Record struct {

	// Name uniquely identifies the camera.
	Name string

	// ExtrinsicR is the camera-to-world rotation, row by row.
	ExtrinsicR [3][3]float64

	// ExtrinsicT is the camera position in world space.
	ExtrinsicT [3]float64

	// Convention is the axis convention of the camera.
	Convention Conventions
}

// file is the JSON form of a [Record].
type file struct {
	Name       *string     `json:"name"`
	ExtrinsicR [][]float64 `json:"extrinsic_r"`
	ExtrinsicT []float64   `json:"extrinsic_t"`
	Convention string      `json:"convention"`
}

// ParseError is a calibration file that could not be read or is
// malformed.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	s := "calib: "
	if e.Path != "" {
		s += e.Path + ": "
	}
	s += e.Reason
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse parses one calibration record from JSON, rejecting
// missing keys, wrong shapes and non-finite values.
func Parse(b []byte) (Record, error) {
	var f file
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&f); err != nil {
		return Record{}, &ParseError{Reason: "invalid JSON", Err: err}
	}
	rec := Record{Convention: Conventions(f.Convention)}
	if f.Name == nil || *f.Name == "" {
		return rec, &ParseError{Reason: "missing name"}
	}
	rec.Name = *f.Name
	if len(f.ExtrinsicR) != 3 {
		return rec, &ParseError{Reason: fmt.Sprintf("extrinsic_r has %d rows, want 3", len(f.ExtrinsicR))}
	}
	for i, row := range f.ExtrinsicR {
		if len(row) != 3 {
			return rec, &ParseError{Reason: fmt.Sprintf("extrinsic_r row %d has %d values, want 3", i, len(row))}
		}
		for j, v := range row {
			if !finite(v) {
				return rec, &ParseError{Reason: fmt.Sprintf("extrinsic_r[%d][%d] is not finite", i, j)}
			}
			rec.ExtrinsicR[i][j] = v
		}
	}
	if len(f.ExtrinsicT) != 3 {
		return rec, &ParseError{Reason: fmt.Sprintf("extrinsic_t has %d values, want 3", len(f.ExtrinsicT))}
	}
	for i, v := range f.ExtrinsicT {
		if !finite(v) {
			return rec, &ParseError{Reason: fmt.Sprintf("extrinsic_t[%d] is not finite", i)}
		}
		rec.ExtrinsicT[i] = v
	}
	return rec, nil
}

// ParseFile reads and parses the calibration file at the given path.
func ParseFile(path string) (Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Record{}, &ParseError{Path: path, Reason: "read failed", Err: err}
	}
	rec, err := Parse(b)
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Path = path
	}
	return rec, err
}

// LoadFiles parses all of the given files as one batch, in order.
// If any file fails, or two files name the same camera, no records
// are returned.
func LoadFiles(paths ...string) ([]Record, error) {
	recs := make([]Record, 0, len(paths))
	seen := map[string]string{}
	for _, p := range paths {
		rec, err := ParseFile(p)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[rec.Name]; ok {
			return nil, &ParseError{Path: p, Reason: fmt.Sprintf("camera %q already defined in %s", rec.Name, filepath.Base(prev))}
		}
		seen[rec.Name] = p
		recs = append(recs, rec)
	}
	return recs, nil
}

// Names returns the camera names of the given records, in order.
func Names(recs []Record) []string {
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	return names
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
