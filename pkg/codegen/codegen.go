// Package codegen turns a resolved IR program into the two generated
// artifacts a compiled schema produces: a Go server builder/encoder
// (server_go.go, built on dave/jennifer) and a TypeScript client decoder
// (client_ts.go, hand-assembled by joining source lines).
package codegen

import "unicode"

// title upper-cases the first rune of a field name, the way both emitters
// derive an exported Go identifier or a TypeScript accessor suffix from a
// schema field's declared (lower-case-leading) name.
func title(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
