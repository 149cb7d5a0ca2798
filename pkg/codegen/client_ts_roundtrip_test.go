package codegen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/require"

	"its-hmny.dev/resourcec/pkg/codec"
	"its-hmny.dev/resourcec/pkg/ir"
)

// tsToJS strips the TypeScript-only syntax the generated client uses down to
// plain JavaScript goja can execute. It is deliberately narrow - targeting
// only the exact shapes client_ts.go ever emits - rather than a general
// transpiler: good enough to pin the wire contract, not to strip arbitrary
// TypeScript.
var (
	reInterfaceBlock = regexp.MustCompile(`(?s)export interface \w+ \{.*?\n\}\n`)
	reExportKeyword  = regexp.MustCompile(`export `)
	rePrivateKeyword = regexp.MustCompile(`private `)
	reParamType      = regexp.MustCompile(`\((\w+): [\w.]+\)`)
	reReturnType     = regexp.MustCompile(`\):\s*[\w.\[\]]+(?:\s*\|\s*(?:null|undefined))*\s*\{`)
	reDeclType       = regexp.MustCompile(`(?m)^(\s*)(const |let |)(\w+): [\w.\[\]]+(?:\s*\|\s*(?:null|undefined))*(\s*=\s*.*)?;$`)
)

func tsToJS(src string) string {
	src = reInterfaceBlock.ReplaceAllString(src, "")
	src = reExportKeyword.ReplaceAllString(src, "")
	src = rePrivateKeyword.ReplaceAllString(src, "")
	src = reParamType.ReplaceAllString(src, "($1)")
	src = reReturnType.ReplaceAllString(src, ") {")
	src = reDeclType.ReplaceAllString(src, "$1$2$3$4;")
	return src
}

// TestGenerateClientRoundTripsAgainstCodec builds a wire-format payload with
// pkg/codec's reference encoder, feeds it through the generated TypeScript
// decoder (transpiled to plain JS and executed in goja) and checks the
// decoded record matches what was encoded - the client-side half of the
// round-trip contract, mirroring TestGenerateServerRoundTripsAgainstCodec on
// the server side, so a generator bug in field order or framing can't hide
// behind source text that merely looks right.
func TestGenerateClientRoundTripsAgainstCodec(t *testing.T) {
	prog := &ir.Program{Resources: []ir.Resource{
		{Name: "User", Fields: []ir.Field{
			{Name: "name", Type: ir.PrimitiveType{Name: "string"}},
			{Name: "age", Type: ir.PrimitiveType{Name: "number"}, Optional: true},
		}},
	}}

	tsSource, err := GenerateClient(prog)
	require.NoError(t, err)

	jsSource := tsToJS(tsSource)

	encoder := codec.NewEncoder(prog)
	encoded, err := encoder.EncodeValue(codec.ResourceValue([]codec.FieldValue{
		{Name: "name", Value: codec.StringValue("Alice")},
		{Name: "age", Value: codec.NumberValue(30)},
	}), ir.ResourceRef{Index: 0})
	require.NoError(t, err)

	byteLiterals := make([]string, len(encoded))
	for i, b := range encoded {
		byteLiterals[i] = fmt.Sprintf("%d", b)
	}

	harness := fmt.Sprintf(`
%s
var __data = new Uint8Array([%s]);
JSON.stringify(decodeUserRecord(new Cursor(__data)));
`, jsSource, strings.Join(byteLiterals, ","))

	vm := goja.New()
	value, err := vm.RunString(harness)
	require.NoError(t, err, "generated client JS must execute under goja:\n%s", jsSource)

	var decoded struct {
		Name string `json:"name"`
		Age  int64  `json:"age"`
	}
	require.NoError(t, json.Unmarshal([]byte(value.String()), &decoded))

	require.Equal(t, "Alice", decoded.Name)
	require.Equal(t, int64(30), decoded.Age)
}
