package schema

// Program is the root of a parsed schema: an ordered list of resource
// declarations, in the exact order they appeared in the source text.
type Program struct {
	Resources []Resource
}

// Resource is a single 'resource Name { ... }' declaration.
type Resource struct {
	Name   string
	Fields []Field
	Pos    Position
}

// Field is a single attribute*-type-name declaration inside a resource body.
// Index records the field's zero-based position within its resource, which
// is also the field's encoding order on the wire.
type Field struct {
	Name     string
	Type     Type
	Nullable bool
	Optional bool
	Default  *Literal // nil if the field has no 'default(...)' attribute
	Index    int
	Pos      Position
}

// Type is the AST-level representation of a field's declared type: one of
// PrimitiveType, ListType or NamedType.
type Type interface {
	isType()
}

// PrimitiveType is one of the three built-in scalar types: string, number, bool.
type PrimitiveType struct {
	Name string
}

// ListType is 'list T' for some nested type T.
type ListType struct {
	Elem Type
}

// NamedType is a reference to another resource by name, resolved to a
// ResourceRef by the type resolver in pkg/ir.
type NamedType struct {
	Name string
}

func (PrimitiveType) isType() {}
func (ListType) isType()      {}
func (NamedType) isType()     {}

// LiteralKind identifies which of the three literal forms a Literal holds.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralBool
	LiteralString
)

// Literal is the value of a 'default(...)' attribute: an integer, a boolean
// (spelled 'true'/'false'), or a quoted string.
type Literal struct {
	Kind        LiteralKind
	IntValue    int64
	BoolValue   bool
	StringValue string
}
