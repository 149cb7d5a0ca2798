package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) *Program {
	t.Helper()
	lexer := NewLexer(src)
	parser, err := NewParser(lexer)
	require.NoError(t, err)
	program, err := parser.ParseProgram()
	require.NoError(t, err)
	return program
}

func TestParserBasicResource(t *testing.T) {
	program := parseSource(t, `
		resource User {
			string name
			optional number age
			nullable bool active
		}
	`)

	require.Len(t, program.Resources, 1)
	user := program.Resources[0]
	require.Equal(t, "User", user.Name)
	require.Len(t, user.Fields, 3)

	require.Equal(t, "name", user.Fields[0].Name)
	require.Equal(t, PrimitiveType{Name: "string"}, user.Fields[0].Type)
	require.False(t, user.Fields[0].Optional)
	require.False(t, user.Fields[0].Nullable)

	require.Equal(t, "age", user.Fields[1].Name)
	require.True(t, user.Fields[1].Optional)
	require.Equal(t, 1, user.Fields[1].Index)

	require.Equal(t, "active", user.Fields[2].Name)
	require.True(t, user.Fields[2].Nullable)
}

func TestParserListAndNamedTypes(t *testing.T) {
	program := parseSource(t, `
		resource Team {
			list User members
		}
		resource User {
			string name
		}
	`)

	require.Len(t, program.Resources, 2)
	members := program.Resources[0].Fields[0]
	list, ok := members.Type.(ListType)
	require.True(t, ok, "expected a ListType")
	named, ok := list.Elem.(NamedType)
	require.True(t, ok, "expected a NamedType element")
	require.Equal(t, "User", named.Name)
}

func TestParserDefaultAttribute(t *testing.T) {
	program := parseSource(t, `
		resource Flag {
			default(true) bool enabled
			default(42) number count
			default("hi") string greeting
		}
	`)

	fields := program.Resources[0].Fields
	require.NotNil(t, fields[0].Default)
	require.Equal(t, LiteralBool, fields[0].Default.Kind)
	require.True(t, fields[0].Default.BoolValue)

	require.Equal(t, LiteralInt, fields[1].Default.Kind)
	require.Equal(t, int64(42), fields[1].Default.IntValue)

	require.Equal(t, LiteralString, fields[2].Default.Kind)
	require.Equal(t, "hi", fields[2].Default.StringValue)
}

func TestParserEmptyResourceBody(t *testing.T) {
	program := parseSource(t, `resource Empty { }`)
	require.Len(t, program.Resources, 1)
	require.Empty(t, program.Resources[0].Fields)
}

func TestParserDuplicateAttributeRejected(t *testing.T) {
	lexer := NewLexer(`resource User { optional optional string name }`)
	parser, err := NewParser(lexer)
	require.NoError(t, err)
	_, err = parser.ParseProgram()
	require.Error(t, err)
}

func TestParserMissingClosingBrace(t *testing.T) {
	lexer := NewLexer(`resource User { string name`)
	parser, err := NewParser(lexer)
	require.NoError(t, err)
	_, err = parser.ParseProgram()
	require.Error(t, err)
}

func TestParserUnexpectedTopLevelToken(t *testing.T) {
	lexer := NewLexer(`string name`)
	parser, err := NewParser(lexer)
	require.NoError(t, err)
	_, err = parser.ParseProgram()
	require.Error(t, err)
}
