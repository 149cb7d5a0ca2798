package codegen

import (
	"fmt"
	"strings"

	"its-hmny.dev/resourcec/pkg/ir"
)

// cursorPrelude is the shared byte-cursor the generated decode functions
// read from. It is self-contained (no runtime package import): nothing
// ships a runtime library alongside the emitted sources.
var cursorPrelude = []string{
	"class Cursor {",
	"  private view: DataView;",
	"  private pos: number = 0;",
	"",
	"  constructor(buf: Uint8Array) {",
	"    this.view = new DataView(buf.buffer, buf.byteOffset, buf.byteLength);",
	"  }",
	"",
	"  readByte(): number {",
	"    const v = this.view.getUint8(this.pos);",
	"    this.pos += 1;",
	"    return v;",
	"  }",
	"",
	"  readUint32(): number {",
	"    const v = this.view.getUint32(this.pos, true);",
	"    this.pos += 4;",
	"    return v;",
	"  }",
	"",
	"  readInt64(): number {",
	"    const v = this.view.getBigInt64(this.pos, true);",
	"    this.pos += 8;",
	"    return Number(v);",
	"  }",
	"",
	"  readBool(): boolean {",
	"    return this.readByte() !== 0;",
	"  }",
	"",
	"  readString(): string {",
	"    const len = this.readUint32();",
	"    const bytes = new Uint8Array(this.view.buffer, this.view.byteOffset + this.pos, len);",
	"    this.pos += len;",
	"    return new TextDecoder().decode(bytes);",
	"  }",
	"}",
}

// GenerateClient emits the TypeScript client decoder source for the whole
// resolved program: one record interface, one free decode function and one
// Decoder class per resource, in IR declaration order.
func GenerateClient(program *ir.Program) (string, error) {
	out := []string{
		"// Code generated by resourcec. DO NOT EDIT.",
		"",
	}
	out = append(out, cursorPrelude...)

	for _, resource := range program.Resources {
		lines, err := generateResourceClient(resource, program)
		if err != nil {
			return "", err
		}
		out = append(out, lines...)
	}

	return strings.Join(out, "\n") + "\n", nil
}

func generateResourceClient(resource ir.Resource, program *ir.Program) ([]string, error) {
	var out []string

	out = append(out, "", fmt.Sprintf("export interface %sRecord {", resource.Name))
	for _, field := range resource.Fields {
		fieldType, err := tsFieldType(field, program)
		if err != nil {
			return nil, err
		}
		optMark := ""
		if field.Optional {
			optMark = "?"
		}
		out = append(out, fmt.Sprintf("  %s%s: %s;", field.Name, optMark, fieldType))
	}
	out = append(out, "}")

	fnName := decodeFuncName(resource.Name)
	out = append(out, "", fmt.Sprintf("function %s(cursor: Cursor): %sRecord {", fnName, resource.Name))

	tmp := 0
	fieldAssignments := make([]string, 0, len(resource.Fields))
	for _, field := range resource.Fields {
		stmts, expr, err := decodeFieldStatements(field, "cursor", program, &tmp)
		if err != nil {
			return nil, err
		}
		for _, s := range stmts {
			out = append(out, "  "+s)
		}
		fieldAssignments = append(fieldAssignments, fmt.Sprintf("%s: %s", field.Name, expr))
	}
	out = append(out, fmt.Sprintf("  return { %s };", strings.Join(fieldAssignments, ", ")), "}")

	out = append(out, "", fmt.Sprintf("export class %sDecoder {", resource.Name))
	out = append(out, fmt.Sprintf("  private record: %sRecord;", resource.Name))
	out = append(out, "")
	out = append(out, "  private constructor(cursor: Cursor) {")
	out = append(out, fmt.Sprintf("    this.record = %s(cursor);", fnName))
	out = append(out, "  }")
	out = append(out, "")
	out = append(out, fmt.Sprintf("  static decode(buf: Uint8Array): %sDecoder {", resource.Name))
	out = append(out, fmt.Sprintf("    return new %sDecoder(new Cursor(buf));", resource.Name))
	out = append(out, "  }")

	for _, field := range resource.Fields {
		fieldType, err := tsFieldType(field, program)
		if err != nil {
			return nil, err
		}
		out = append(out, "", fmt.Sprintf("  get%s(): %s {", title(field.Name), fieldType))
		out = append(out, fmt.Sprintf("    return this.record.%s;", field.Name))
		out = append(out, "  }")
	}

	out = append(out, "", fmt.Sprintf("  toJSON(): %sRecord {", resource.Name))
	out = append(out, "    return this.record;")
	out = append(out, "  }")
	out = append(out, "}")

	return out, nil
}

func decodeFuncName(resourceName string) string {
	return "decode" + resourceName + "Record"
}

// decodeFieldStatements emits the statements that decode one field into a
// freshly-declared local, returning the variable name that holds the final
// (possibly optional/nullable) value.
func decodeFieldStatements(f ir.Field, cursor string, program *ir.Program, tmp *int) ([]string, string, error) {
	fieldType, err := tsFieldType(f, program)
	if err != nil {
		return nil, "", err
	}
	varName := "f_" + f.Name

	if !f.Optional && !f.Nullable {
		stmts, expr, err := decodeValueStatements(f.Type, cursor, program, tmp)
		if err != nil {
			return nil, "", err
		}
		stmts = append(stmts, fmt.Sprintf("const %s: %s = %s;", varName, fieldType, expr))
		return stmts, varName, nil
	}

	stmts := []string{fmt.Sprintf("let %s: %s;", varName, fieldType)}

	if f.Optional {
		stmts = append(stmts, fmt.Sprintf("if (%s.readByte() !== 0) {", cursor))
		inner, err := decodeNullableOrValue(f, cursor, program, tmp, varName, "  ")
		if err != nil {
			return nil, "", err
		}
		stmts = append(stmts, inner...)
		stmts = append(stmts, "} else {", fmt.Sprintf("  %s = undefined;", varName), "}")
		return stmts, varName, nil
	}

	inner, err := decodeNullableOrValue(f, cursor, program, tmp, varName, "")
	if err != nil {
		return nil, "", err
	}
	stmts = append(stmts, inner...)
	return stmts, varName, nil
}

func decodeNullableOrValue(f ir.Field, cursor string, program *ir.Program, tmp *int, varName, indent string) ([]string, error) {
	if !f.Nullable {
		stmts, expr, err := decodeValueStatements(f.Type, cursor, program, tmp)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, s := range stmts {
			out = append(out, indent+s)
		}
		out = append(out, fmt.Sprintf("%s%s = %s;", indent, varName, expr))
		return out, nil
	}

	stmts, expr, err := decodeValueStatements(f.Type, cursor, program, tmp)
	if err != nil {
		return nil, err
	}

	out := []string{fmt.Sprintf("%sif (%s.readByte() !== 0) {", indent, cursor)}
	for _, s := range stmts {
		out = append(out, indent+"  "+s)
	}
	out = append(out, fmt.Sprintf("%s  %s = %s;", indent, varName, expr))
	out = append(out, fmt.Sprintf("%s} else {", indent), fmt.Sprintf("%s  %s = null;", indent, varName), fmt.Sprintf("%s}", indent))
	return out, nil
}

// decodeValueStatements returns the statements needed to decode a base
// (unframed) value of IR type t, and the expression that refers to it.
func decodeValueStatements(t ir.Type, cursor string, program *ir.Program, tmp *int) ([]string, string, error) {
	switch tt := t.(type) {
	case ir.PrimitiveType:
		switch tt.Name {
		case "string":
			return nil, fmt.Sprintf("%s.readString()", cursor), nil
		case "number":
			return nil, fmt.Sprintf("%s.readInt64()", cursor), nil
		case "bool":
			return nil, fmt.Sprintf("%s.readBool()", cursor), nil
		default:
			return nil, "", fmt.Errorf("codegen: invalid primitive type %q", tt.Name)
		}

	case ir.ListType:
		name := nextTemp(tmp)
		countVar, itemsVar, iVar := name+"Count", name+"Items", name+"I"

		elemType, err := tsType(tt.Elem, program)
		if err != nil {
			return nil, "", err
		}

		stmts := []string{
			fmt.Sprintf("const %s = %s.readUint32();", countVar, cursor),
			fmt.Sprintf("const %s: %s[] = [];", itemsVar, elemType),
			fmt.Sprintf("for (let %s = 0; %s < %s; %s++) {", iVar, iVar, countVar, iVar),
		}

		innerStmts, innerExpr, err := decodeValueStatements(tt.Elem, cursor, program, tmp)
		if err != nil {
			return nil, "", err
		}
		for _, s := range innerStmts {
			stmts = append(stmts, "  "+s)
		}
		stmts = append(stmts, fmt.Sprintf("  %s.push(%s);", itemsVar, innerExpr), "}")

		return stmts, itemsVar, nil

	case ir.ResourceRef:
		resource := program.Resources[tt.Index]
		name := nextTemp(tmp)
		stmts := []string{fmt.Sprintf("const %s = %s(%s);", name, decodeFuncName(resource.Name), cursor)}
		return stmts, name, nil

	default:
		return nil, "", fmt.Errorf("codegen: unrecognized IR type %T", t)
	}
}

func nextTemp(tmp *int) string {
	name := fmt.Sprintf("t%d", *tmp)
	*tmp++
	return name
}

func tsFieldType(f ir.Field, program *ir.Program) (string, error) {
	base, err := tsType(f.Type, program)
	if err != nil {
		return "", err
	}
	switch {
	case f.Optional && f.Nullable:
		return base + " | null | undefined", nil
	case f.Optional:
		return base + " | undefined", nil
	case f.Nullable:
		return base + " | null", nil
	default:
		return base, nil
	}
}

func tsType(t ir.Type, program *ir.Program) (string, error) {
	switch tt := t.(type) {
	case ir.PrimitiveType:
		switch tt.Name {
		case "string":
			return "string", nil
		case "number":
			return "number", nil
		case "bool":
			return "boolean", nil
		default:
			return "", fmt.Errorf("codegen: invalid primitive type %q", tt.Name)
		}
	case ir.ListType:
		inner, err := tsType(tt.Elem, program)
		if err != nil {
			return "", err
		}
		return inner + "[]", nil
	case ir.ResourceRef:
		return program.Resources[tt.Index].Name + "Record", nil
	default:
		return "", fmt.Errorf("codegen: unrecognized IR type %T", t)
	}
}
