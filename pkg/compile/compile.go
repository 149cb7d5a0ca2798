// Package compile wires the whole pipeline together into two programmatic
// entry points: Parse (string -> AST or error) and Compile (string ->
// generated sources or error). The compiler logic is lifted out of main()
// so the CLI in cmd/resourcec stays a thin collaborator that owns none of it.
package compile

import (
	"its-hmny.dev/resourcec/pkg/codegen"
	"its-hmny.dev/resourcec/pkg/ir"
	"its-hmny.dev/resourcec/pkg/schema"
)

// DefaultPackage is the Go package name used for the generated server
// source when the caller doesn't request a different one.
const DefaultPackage = "generated"

// Result is everything a successful Compile produces.
type Result struct {
	IR     *ir.Program
	Client string // generated TypeScript client decoder source
	Server string // generated Go server builder/encoder source
}

// Parse lexes, parses and validates a schema source string, returning its
// AST or the first diagnostic raised (lexical, syntactic or naming).
func Parse(source string) (*schema.Program, error) {
	lexer := schema.NewLexer(source)

	parser, err := schema.NewParser(lexer)
	if err != nil {
		return nil, err
	}

	program, err := parser.ParseProgram()
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(program); err != nil {
		return nil, err
	}

	return program, nil
}

// Compile runs the full pipeline - parse, resolve, detect cycles, generate -
// against DefaultPackage. Use CompileTo to choose a different Go package
// name for the generated server source.
func Compile(source string) (*Result, error) {
	return CompileTo(source, DefaultPackage)
}

// CompileTo is Compile with an explicit Go package name for the generated
// server source; it is the one knob cmd/resourcec's --target-package flag
// exposes, not compiler state.
func CompileTo(source string, serverPackage string) (*Result, error) {
	astProgram, err := Parse(source)
	if err != nil {
		return nil, err
	}

	resolver := ir.NewResolver(astProgram)
	irProgram, err := resolver.Resolve()
	if err != nil {
		return nil, err
	}

	if err := ir.DetectCycles(irProgram); err != nil {
		return nil, err
	}

	client, err := codegen.GenerateClient(irProgram)
	if err != nil {
		return nil, err
	}

	server, err := codegen.GenerateServer(irProgram, serverPackage)
	if err != nil {
		return nil, err
	}

	return &Result{IR: irProgram, Client: client, Server: server}, nil
}
