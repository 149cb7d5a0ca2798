package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"its-hmny.dev/resourcec/pkg/ir"
	"its-hmny.dev/resourcec/pkg/schema"
)

func TestGenerateServerBasicResource(t *testing.T) {
	prog := &ir.Program{Resources: []ir.Resource{
		{Name: "User", Fields: []ir.Field{
			{Name: "name", Type: ir.PrimitiveType{Name: "string"}},
			{Name: "age", Type: ir.PrimitiveType{Name: "number"}, Optional: true},
		}},
	}}

	out, err := GenerateServer(prog, "generated")
	require.NoError(t, err)

	require.Contains(t, out, "package generated")
	require.Contains(t, out, "type User struct")
	require.Contains(t, out, "Name string")
	require.Contains(t, out, "Age  FieldNumber")
	require.Contains(t, out, "type FieldNumber struct")
	require.Contains(t, out, "func NewUser() *User")
	require.Contains(t, out, "func (r *User) WithName(v string) *User")
	require.Contains(t, out, "func (r *User) WithAge(v int64) *User")
	require.Contains(t, out, "func (r *User) Encode() ([]byte, error)")
}

func TestGenerateServerListAndResourceRef(t *testing.T) {
	prog := &ir.Program{Resources: []ir.Resource{
		{Name: "Team", Fields: []ir.Field{
			{Name: "members", Type: ir.ListType{Elem: ir.ResourceRef{Index: 1}}},
		}},
		{Name: "User", Fields: []ir.Field{
			{Name: "name", Type: ir.PrimitiveType{Name: "string"}},
		}},
	}}

	out, err := GenerateServer(prog, "generated")
	require.NoError(t, err)

	require.Contains(t, out, "Members []*User")
	require.Contains(t, out, "func (r *Team) WithMembers(v []*User) *Team")
}

func TestGenerateServerFieldWrapperEmittedOnce(t *testing.T) {
	prog := &ir.Program{Resources: []ir.Resource{
		{Name: "A", Fields: []ir.Field{{Name: "x", Type: ir.PrimitiveType{Name: "bool"}, Optional: true}}},
		{Name: "B", Fields: []ir.Field{{Name: "y", Type: ir.PrimitiveType{Name: "bool"}, Nullable: true}}},
	}}

	out, err := GenerateServer(prog, "generated")
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out, "type FieldBool struct"),
		"the bool wrapper should be emitted once and shared across both resources")
}

func TestGenerateServerEmitsDefaultConstant(t *testing.T) {
	prog := &ir.Program{Resources: []ir.Resource{
		{Name: "User", Fields: []ir.Field{
			{Name: "name", Type: ir.PrimitiveType{Name: "string"}},
			{
				Name:    "role",
				Type:    ir.PrimitiveType{Name: "string"},
				Default: &schema.Literal{Kind: schema.LiteralString, StringValue: "member"},
			},
			{
				Name:    "retries",
				Type:    ir.PrimitiveType{Name: "number"},
				Default: &schema.Literal{Kind: schema.LiteralInt, IntValue: 3},
			},
		}},
	}}

	out, err := GenerateServer(prog, "generated")
	require.NoError(t, err)

	require.Contains(t, out, `DefaultUserRole = "member"`)
	require.Contains(t, out, "DefaultUserRetries = int64(3)")
	require.NotContains(t, out, "DefaultUserName",
		"a field with no declared default must not get a constant")
}
