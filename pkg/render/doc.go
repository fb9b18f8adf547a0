// Package render converts rendered SVG into raster and print formats.
//
// Subpackages produce the SVG:
//
//   - render/svg draws a positioned [scene.Scene] (the native renderer)
//   - render/dot emits Graphviz DOT with UML arrowheads and lets Graphviz
//     lay the diagram out instead of the force engine
//
// [ToPNG] and [ToPDF] shell out to rsvg-convert, which must be installed:
// brew install librsvg (macOS), apt install librsvg2-bin (Linux).
//
// [scene.Scene]: github.com/matzehuels/classgraph/pkg/scene.Scene
package render
