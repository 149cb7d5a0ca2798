package schema

import (
	"its-hmny.dev/resourcec/pkg/diag"
)

// Validate walks a parsed *Program and enforces the naming invariants:
// resource names are pairwise distinct and PascalCase, field names are
// pairwise distinct within their resource. It never touches types, so it
// runs before and independently of the resolver in pkg/ir.
func Validate(program *Program) error {
	seenResources := make(map[string]bool, len(program.Resources))

	for _, resource := range program.Resources {
		if !isPascalCase(resource.Name) {
			return diag.At(diag.Naming, resource.Pos.Line, resource.Pos.Column,
				"resource name %q is not PascalCase", resource.Name)
		}

		if seenResources[resource.Name] {
			return diag.At(diag.Naming, resource.Pos.Line, resource.Pos.Column,
				"duplicate resource name %q", resource.Name)
		}
		seenResources[resource.Name] = true

		if err := validateFieldNames(resource); err != nil {
			return err
		}
	}

	return nil
}

func validateFieldNames(resource Resource) error {
	seenFields := make(map[string]bool, len(resource.Fields))

	for _, field := range resource.Fields {
		if seenFields[field.Name] {
			return diag.At(diag.Naming, field.Pos.Line, field.Pos.Column,
				"duplicate field name %q in resource %q", field.Name, resource.Name)
		}
		seenFields[field.Name] = true
	}

	return nil
}

func isPascalCase(name string) bool {
	if name == "" {
		return false
	}
	first := rune(name[0])
	return first >= 'A' && first <= 'Z'
}
