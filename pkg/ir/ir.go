// Package ir implements the second half of the pipeline: resolving an
// AST (pkg/schema) into a fully-typed intermediate representation where
// every named-type reference has been replaced by the numeric index of the
// resource it points to, and checking that those references are acyclic.
package ir

import "its-hmny.dev/resourcec/pkg/schema"

// Program is the resolved counterpart of schema.Program: the same resources
// in the same declaration order, but with every field's Type fully resolved.
type Program struct {
	Resources []Resource
}

// Resource is the resolved counterpart of schema.Resource.
type Resource struct {
	Name   string
	Fields []Field
}

// Field is the resolved counterpart of schema.Field - identical except Type
// is now an ir.Type instead of a schema.Type, and the source Pos is dropped.
type Field struct {
	Name     string
	Type     Type
	Nullable bool
	Optional bool
	Default  *schema.Literal
	Index    int
}

// Type is the resolved counterpart of schema.Type: one of PrimitiveType,
// ListType or ResourceRef.
type Type interface {
	isType()
}

// PrimitiveType is one of string, number, bool - unchanged from the AST.
type PrimitiveType struct {
	Name string
}

// ListType is 'list T' for some resolved nested type T.
type ListType struct {
	Elem Type
}

// ResourceRef replaces a schema.NamedType once its name has been resolved:
// Index is the position of the referenced resource in Program.Resources.
type ResourceRef struct {
	Index int
}

func (PrimitiveType) isType() {}
func (ListType) isType()      {}
func (ResourceRef) isType()   {}
