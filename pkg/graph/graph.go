package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Input API
// =============================================================================

// ReadInputFile reads a listening-facts JSON file.
func ReadInputFile(path string) (Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return Input{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadInput(f)
}

// ReadInput decodes listening facts from an io.Reader.
func ReadInput(r io.Reader) (Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Input{}, fmt.Errorf("decode: %w", err)
	}
	return in, nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalData converts a built graph to JSON bytes.
func MarshalData(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteData(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDataFile writes a built graph to a JSON file.
// The file is created with 0644 permissions.
func WriteDataFile(d Data, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteData(d, f)
}

// WriteData writes a built graph as JSON to an io.Writer.
func WriteData(d Data, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalized(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadDataFile reads a graph JSON file.
func ReadDataFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadData(f)
}

// ReadData decodes a graph from an io.Reader. Missing collections are
// replaced by empty ones so callers never see nil slices or maps.
func ReadData(r io.Reader) (Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Data{}, fmt.Errorf("decode: %w", err)
	}
	return normalized(d), nil
}

func normalized(d Data) Data {
	if d.Nodes == nil {
		d.Nodes = []Node{}
	}
	if d.Edges == nil {
		d.Edges = []Edge{}
	}
	adj := make(map[string][]AdjacencyEntry, len(d.Adjacency))
	for k, v := range d.Adjacency {
		adj[k] = v
	}
	for _, n := range d.Nodes {
		if adj[n.ID] == nil {
			adj[n.ID] = []AdjacencyEntry{}
		}
	}
	d.Adjacency = adj
	if d.TopK == nil {
		d.TopK = []string{}
	}
	return d
}
