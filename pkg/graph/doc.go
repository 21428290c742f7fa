// Package graph defines the genre graph model and its serialization format.
//
// The package holds plain data: listening facts fed to the builder
// ([GenreStat], [ArtistGenre], [CollabTrack]), the built graph ([Data] with
// its [Node], [Edge] and [AdjacencyEntry] values) and the caller-owned
// position arena ([Positions]) produced by layouts and the physics stepper.
//
// # Architecture
//
// Data flows one way through the rest of the module:
//
//	graph.Input → builder.Build → graph.Data → layout / physics → graph.Positions → camera
//
// [Data] is built once per input snapshot and treated as immutable by every
// consumer. Positions are never stored on nodes; they live in a [Positions] map
// keyed by node id so layouts and the stepper stay pure functions
// of (graph, positions).
//
// # Edge Identity
//
// Edges are undirected. [PairKey] produces the canonical id
// min(a,b) + "__" + max(a,b), so an unordered pair maps to exactly one edge:
//
//	graph.PairKey("rock", "pop") // "pop__rock"
//
// # Serialization
//
// Inputs, graphs and layouts use JSON with camelCase keys, matching the
// dataset files produced by the enrichment tooling:
//
//	in, _ := graph.ReadInputFile("listening.json")
//	graph.WriteDataFile(data, "graph.json")
//	l, _ := graph.ReadLayoutFile("graph.layout.json")
//
// # Concurrency
//
// All types are safe for concurrent reads but not concurrent writes.
package graph
