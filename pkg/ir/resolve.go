package ir

import (
	"github.com/agnivade/levenshtein"

	"its-hmny.dev/resourcec/pkg/diag"
	"its-hmny.dev/resourcec/pkg/schema"
)

// Resolver lowers a schema.Program into an ir.Program, replacing every
// schema.NamedType with the ir.ResourceRef it names. Modeled directly on the
// teacher's pkg/asm/lowering.go Lowerer: one constructor, one Resolve entry
// point, a resolveXxx helper per AST node kind.
type Resolver struct {
	program *schema.Program
	index   map[string]int
}

// NewResolver prepares a Resolver over an already-validated AST.
func NewResolver(program *schema.Program) Resolver {
	index := make(map[string]int, len(program.Resources))
	for i, resource := range program.Resources {
		index[resource.Name] = i
	}
	return Resolver{program: program, index: index}
}

// Resolve lowers the whole program, or returns the first 'resolution'
// diagnostic encountered (undefined type references, in declaration order).
func (r *Resolver) Resolve() (*Program, error) {
	resources := make([]Resource, len(r.program.Resources))

	for i, resource := range r.program.Resources {
		resolved, err := r.resolveResource(resource)
		if err != nil {
			return nil, err
		}
		resources[i] = resolved
	}

	return &Program{Resources: resources}, nil
}

func (r *Resolver) resolveResource(resource schema.Resource) (Resource, error) {
	fields := make([]Field, len(resource.Fields))

	for i, field := range resource.Fields {
		typ, err := r.resolveType(field.Type)
		if err != nil {
			return Resource{}, err
		}

		fields[i] = Field{
			Name:     field.Name,
			Type:     typ,
			Nullable: field.Nullable,
			Optional: field.Optional,
			Default:  field.Default,
			Index:    field.Index,
		}
	}

	return Resource{Name: resource.Name, Fields: fields}, nil
}

func (r *Resolver) resolveType(t schema.Type) (Type, error) {
	switch tt := t.(type) {
	case schema.PrimitiveType:
		return PrimitiveType{Name: tt.Name}, nil

	case schema.ListType:
		elem, err := r.resolveType(tt.Elem)
		if err != nil {
			return nil, err
		}
		return ListType{Elem: elem}, nil

	case schema.NamedType:
		idx, ok := r.index[tt.Name]
		if !ok {
			return nil, r.undefinedTypeError(tt.Name)
		}
		return ResourceRef{Index: idx}, nil

	default:
		return nil, diag.New(diag.Resolution, "unrecognized AST type %T", t)
	}
}

// undefinedTypeError builds the 'resolution' diagnostic for a name with no
// matching resource declaration, appending a "did you mean" suggestion when
// a declared resource name is within edit distance 2. Candidates are
// compared in declaration order so the result never depends on map
// iteration order: Compile must be a pure function of its input string.
func (r *Resolver) undefinedTypeError(name string) error {
	suggestion := ""
	bestDistance := -1

	for _, resource := range r.program.Resources {
		distance := levenshtein.ComputeDistance(name, resource.Name)
		if distance > 2 {
			continue
		}
		if bestDistance == -1 || distance < bestDistance {
			suggestion, bestDistance = resource.Name, distance
		}
	}

	if suggestion != "" {
		return diag.New(diag.Resolution, "undefined type: %s (did you mean %q?)", name, suggestion)
	}
	return diag.New(diag.Resolution, "undefined type: %s", name)
}
