package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAccepts(t *testing.T) {
	program := parseSource(t, `
		resource User {
			string name
			number age
		}
	`)
	require.NoError(t, Validate(program))
}

func TestValidateRejectsNonPascalCaseResource(t *testing.T) {
	program := parseSource(t, `resource user { string name }`)
	err := Validate(program)
	require.Error(t, err)
}

func TestValidateRejectsDuplicateResourceName(t *testing.T) {
	program := parseSource(t, `
		resource User { string name }
		resource User { number age }
	`)
	err := Validate(program)
	require.Error(t, err)
}

func TestValidateRejectsDuplicateFieldName(t *testing.T) {
	program := parseSource(t, `
		resource User {
			string name
			number name
		}
	`)
	err := Validate(program)
	require.Error(t, err)
}
