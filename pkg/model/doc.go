// Package model holds the in-memory class diagram: nodes (classes) with
// typed attributes and operations, and the relationships between them.
//
// # Mirrored relationships
//
// Every relationship is stored twice, once on each endpoint. If node A has a
// record pointing at B, then B has a record pointing at A with the same
// [Kind]. The WholeEndAtSource flags of the two records are always logical
// negations of each other, so exactly one end of every pair is flagged:
//
//   - Aggregation, Composition: the flagged end is the "whole" and carries the diamond.
//   - Association: the flagged end is the owning end; the arrowhead sits at the other end.
//   - Inheritance, Realization, Dependency: the flagged end is the general or
//     depended-upon end. The flag is derived by [Graph.Connect] from argument
//     order and any caller-supplied value is ignored.
//
// Use the editing methods on [Graph] ([Graph.Connect], [Graph.SetRelationship],
// [Graph.Disconnect], [Graph.RemoveNode]) to keep the pair consistent.
// [Graph.Validate] reports every violation in a loaded graph.
//
// # Structural vs cosmetic changes
//
// [Graph.Fingerprint] hashes only what influences layout: node identity and
// order, compartment row counts, and relationships. Renaming a class, changing
// its color or editing attribute text leaves the fingerprint unchanged.
package model
