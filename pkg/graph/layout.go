package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// Layout algorithm names.
const (
	AlgorithmRadial = "radial"
	AlgorithmForce  = "force"
	AlgorithmTree   = "tree"
)

// Layout is the serialization format for a computed layout.
//
// Graph is embedded so a layout file is self-contained and can be rendered
// without the graph file it was computed from. Anchors and Categories are
// only present when category anchors were generated.
type Layout struct {
	Algorithm  string    `json:"algorithm"`
	Seed       uint32    `json:"seed,omitempty"`
	Positions  Positions `json:"positions"`
	Anchors    Positions `json:"anchors,omitempty"`
	Categories Positions `json:"categories,omitempty"`
	Bounds     Rect      `json:"bounds"`
	Graph      *Data     `json:"graph,omitempty"`
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// A missing algorithm defaults to radial.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Algorithm == "" {
		l.Algorithm = AlgorithmRadial
	}
	if l.Positions == nil {
		l.Positions = Positions{}
	}
	return l, nil
}

// WriteLayoutFile writes a layout as JSON to path.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadLayoutFile reads and decodes a layout JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
