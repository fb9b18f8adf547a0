// Package pkg provides the core libraries for classgraph, a UML class diagram
// layout and connector-routing engine.
//
// # Overview
//
// classgraph places class boxes with a force-directed layout, routes each
// relationship as a straight connector clipped to the box borders, and
// attaches the UML end marker for its kind. The pkg directory is organized
// into four areas:
//
//  1. Domain: [model], [layout], [geometry], [scene]
//  2. Interchange: [io] documents and [render] output formats
//  3. Infrastructure: [cache], [store], [config], [observability]
//  4. Orchestration: [pipeline] and the HTTP [server]
//
// # Architecture
//
// The typical data flow:
//
//	project document (JSON/YAML)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [model] package (mirrored relationship graph)
//	         ↓
//	    [layout] package (force-directed positions)
//	         ↓
//	    [geometry] package (connectors + markers)
//	         ↓
//	    [scene] package (serializable snapshot)
//	         ↓
//	    SVG/PNG/PDF/DOT/JSON output
//
// # Quick Start
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/classgraph/pkg/cache"
//	    cgio "github.com/matzehuels/classgraph/pkg/io"
//	    "github.com/matzehuels/classgraph/pkg/pipeline"
//	)
//
//	_, g, _ := cgio.ImportFile("shop.yaml")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := runner.Render(context.Background(), g, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	os.WriteFile("shop.svg", res.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// [model] - Classes with typed attributes and operations, linked by
// relationships stored as mirrored pairs. Editing methods keep both records
// consistent; [model.Graph.Fingerprint] identifies the layout-relevant
// structure.
//
// [layout] - The force engine: spring attraction along links, pairwise
// repulsion, overlap and line-avoidance forces, seeded initial placement and
// a convergence tolerance. [layout.Sizer] derives box sizes from the text.
//
// [geometry] - Resolves each relationship into a connector and its marker
// (diamond, triangle, open arrow) at the correct end.
//
// [scene] - Positioned boxes plus primitives; the JSON form is also the
// "json" render format and the HTTP layout response.
//
// [render] - SVG (native), DOT (Graphviz), and PNG/PDF via rsvg-convert.
//
// [pipeline] - Caching runner: layout by fingerprint, artifacts by scene
// content hash, with bounded parallel format rendering.
//
// [cache] - Null, file and Redis backends with TTLs and key namespacing.
//
// [store] - Project persistence in a directory of JSON files or MongoDB.
//
// [server] - chi-based HTTP API for layout, render and project editing with
// Prometheus metrics.
//
// [viewport] - Pan and zoom mapping used by the terminal viewer.
package pkg
