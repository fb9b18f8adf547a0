// Package geometry turns positioned boxes and relationships into drawable
// connector primitives: one line per related pair plus the UML marker that
// identifies the relationship kind.
//
// Lines run between box boundaries, never from center to center. Each end
// point is where the center-to-center segment leaves the box (see
// [layout.Box.EdgePoint]). Markers are anchored on those end points:
//
//	Association   filled arrowhead at the non-owning end
//	Aggregation   hollow diamond at the whole end
//	Composition   filled diamond at the whole end
//	Inheritance   hollow triangle at the general end
//	Realization   hollow triangle at the general end, dashed line
//	Dependency    open arrowhead at the depended-upon end, dashed line
//
// Mirrored records are drawn once per unordered pair. Relationships whose
// target has no box are skipped, and so are pairs whose boxes share a center
// or whose end points coincide. [Resolution] counts both cases.
package geometry
