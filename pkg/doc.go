// Package pkg provides the libraries behind sprout.
//
// # Overview
//
// Sprout grows plant outlines from a parametric L-system. The pkg directory
// is organized into three areas:
//
//  1. Domain logic: [lsystem] (grammar and rewriting), [turtle]
//     (interpretation into polygons) and [geom] (bounds and fitting)
//  2. Orchestration: [pipeline] (derive → interpret → export), [sink]
//     (JSON, text and stats outputs) and [server] (HTTP API)
//  3. Infrastructure: [cache], [config], [errors], [observability] and
//     [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	Preset or TOML parameter file
//	         ↓
//	    [lsystem] package (rewrite the axiom n steps)
//	         ↓
//	    [turtle] package (walk the sentence, collect polygons)
//	         ↓
//	    [geom] package (optional fit to a frame)
//	         ↓
//	    JSON/text/stats output
//
// # Quick Start
//
//	leaf := lsystem.Presets["leaf"]
//	s := lsystem.New(lsystem.Axiom(), lsystem.Branching, leaf).Nth(8)
//	polys, err := turtle.Interpret(s, leaf.Angle)
//	if err != nil {
//	    return err
//	}
//	data, err := sink.RenderJSON(polys)
package pkg
