// Package io reads and writes project documents, the portable form of a
// class diagram.
//
// # Format
//
// A document lists classes and, optionally, links between them:
//
//	{
//	  "name": "shapes",
//	  "nodes": [
//	    {"id": "Shape", "operations": [{"name": "area", "type": "float"}]},
//	    {"id": "Circle", "attributes": [{"name": "radius", "type": "float"}]}
//	  ],
//	  "links": [
//	    {"from": "Circle", "to": "Shape", "kind": "extends"}
//	  ]
//	}
//
// Links are the convenient way to write a diagram by hand: each one becomes
// a mirrored pair of relationship records. Nodes may instead carry their
// own "relationships" arrays, which is what [FromGraph] writes; those must
// already be mirrored.
//
// Kind names are case-insensitive and include the aliases "extends",
// "generalization" and "implements". Attribute types default to "string"
// and operation return types to "void".
//
// The same structure is accepted as YAML. [FormatFromPath] picks the codec
// from the file extension.
package io
