package codegen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"its-hmny.dev/resourcec/pkg/ir"
	"its-hmny.dev/resourcec/pkg/schema"
)

// GenerateServer emits the Go server builder/encoder source for the whole
// resolved program, as package pkgName: one struct, one zero constructor,
// one fluent setter per field and one Encode method per resource, built
// with dave/jennifer the way encoredev-encore's codegen/apigen/clientgen
// package builds generated Go sources.
//
// Optional and/or nullable fields are backed by a small concrete wrapper
// struct (Present/Null/Value) rather than a generic one: the wrapper set a
// schema actually needs is almost always tiny (one per distinct base type
// that ever appears behind 'optional' or 'nullable'), and a concrete struct
// per base type keeps the emitted code free of any generic instantiation
// syntax.
func GenerateServer(program *ir.Program, pkgName string) (string, error) {
	file := jen.NewFile(pkgName)
	file.HeaderComment("Code generated by resourcec. DO NOT EDIT.")

	wrappers := collectWrappers(program)
	emitWriteHelpers(file)
	for _, w := range wrappers.ordered {
		emitWrapperStruct(file, w)
	}

	for _, resource := range program.Resources {
		emitResource(file, resource, program, wrappers)
	}

	var buf bytes.Buffer
	if err := file.Render(&buf); err != nil {
		return "", fmt.Errorf("codegen: rendering generated server source: %w", err)
	}
	return buf.String(), nil
}

// wrapperInfo describes one concrete Present/Null/Value struct the emitter
// needs, keyed by the Go identifier it will be emitted under.
type wrapperInfo struct {
	name string
	base *jen.Statement
}

// wrapperSet tracks the distinct wrappers a program needs, in first-seen
// (resource declaration) order, so emission is deterministic.
type wrapperSet struct {
	seen    map[string]bool
	ordered []wrapperInfo
}

func newWrapperSet() *wrapperSet {
	return &wrapperSet{seen: map[string]bool{}}
}

func (ws *wrapperSet) require(t ir.Type, program *ir.Program) string {
	name := wrapperTypeName(t, program)
	if !ws.seen[name] {
		ws.seen[name] = true
		ws.ordered = append(ws.ordered, wrapperInfo{name: name, base: goBaseType(t, program)})
	}
	return name
}

// collectWrappers walks every field in declaration order and records the
// wrapper type each optional/nullable field needs.
func collectWrappers(program *ir.Program) *wrapperSet {
	ws := newWrapperSet()
	for _, resource := range program.Resources {
		for _, field := range resource.Fields {
			if field.Optional || field.Nullable {
				ws.require(field.Type, program)
			}
		}
	}
	return ws
}

// wrapperTypeName derives a deterministic, collision-free Go identifier for
// the wrapper struct backing a given base type, e.g. "string" -> "FieldString",
// "list of number" -> "FieldListNumber", a reference to User -> "FieldUserRef".
func wrapperTypeName(t ir.Type, program *ir.Program) string {
	return "Field" + wrapperTypeSuffix(t, program)
}

func wrapperTypeSuffix(t ir.Type, program *ir.Program) string {
	switch tt := t.(type) {
	case ir.PrimitiveType:
		return title(tt.Name)
	case ir.ListType:
		return "List" + wrapperTypeSuffix(tt.Elem, program)
	case ir.ResourceRef:
		return program.Resources[tt.Index].Name + "Ref"
	default:
		return "Any"
	}
}

func emitWrapperStruct(file *jen.File, w wrapperInfo) {
	file.Comment(w.name + " wraps a value that may be schema-absent (Present=false) or schema-null (Null=true).")
	file.Type().Id(w.name).Struct(
		jen.Id("Present").Bool(),
		jen.Id("Null").Bool(),
		jen.Id("Value").Add(w.base),
	)
}

// emitWriteHelpers emits the little-endian primitive writers every Encode
// method below is built out of.
func emitWriteHelpers(file *jen.File) {
	file.Func().Id("writeUint32").Params(
		jen.Id("buf").Op("*").Qual("bytes", "Buffer"),
		jen.Id("v").Uint32(),
	).Block(
		jen.Id("tmp").Op(":=").Make(jen.Index().Byte(), jen.Lit(4)),
		jen.Qual("encoding/binary", "LittleEndian").Dot("PutUint32").Call(jen.Id("tmp"), jen.Id("v")),
		jen.Id("buf").Dot("Write").Call(jen.Id("tmp")),
	)

	file.Func().Id("writeInt64").Params(
		jen.Id("buf").Op("*").Qual("bytes", "Buffer"),
		jen.Id("v").Int64(),
	).Block(
		jen.Id("tmp").Op(":=").Make(jen.Index().Byte(), jen.Lit(8)),
		jen.Qual("encoding/binary", "LittleEndian").Dot("PutUint64").Call(jen.Id("tmp"), jen.Uint64().Call(jen.Id("v"))),
		jen.Id("buf").Dot("Write").Call(jen.Id("tmp")),
	)

	file.Func().Id("writeString").Params(
		jen.Id("buf").Op("*").Qual("bytes", "Buffer"),
		jen.Id("s").String(),
	).Block(
		jen.Id("writeUint32").Call(jen.Id("buf"), jen.Uint32().Call(jen.Len(jen.Id("s")))),
		jen.Id("buf").Dot("WriteString").Call(jen.Id("s")),
	)

	file.Func().Id("writeBool").Params(
		jen.Id("buf").Op("*").Qual("bytes", "Buffer"),
		jen.Id("b").Bool(),
	).Block(
		jen.If(jen.Id("b")).Block(
			jen.Id("buf").Dot("WriteByte").Call(jen.Lit(1)),
		).Else().Block(
			jen.Id("buf").Dot("WriteByte").Call(jen.Lit(0)),
		),
	)
}

func emitResource(file *jen.File, resource ir.Resource, program *ir.Program, wrappers *wrapperSet) {
	emitStruct(file, resource, program, wrappers)
	emitConstructor(file, resource)
	emitSetters(file, resource, program, wrappers)
	emitEncode(file, resource)
	emitDefaults(file, resource)
}

// emitDefaults emits one documented constant per field carrying a schema
// 'default(...)' attribute. The wire format never sees these: Absent is
// rejected outright on non-optional fields at the codec layer (pkg/codec),
// so a default constant here exists purely for generated code (and whatever
// calls it) to consult.
func emitDefaults(file *jen.File, resource ir.Resource) {
	for _, field := range resource.Fields {
		if field.Default == nil {
			continue
		}
		name := "Default" + resource.Name + title(field.Name)
		file.Comment(name + " is the declared default for " + resource.Name + "." + title(field.Name) + ".")
		file.Const().Id(name).Op("=").Add(defaultLiteral(field.Default))
	}
}

// defaultLiteral renders a schema.Literal as the jennifer expression for its
// Go constant value.
func defaultLiteral(lit *schema.Literal) *jen.Statement {
	switch lit.Kind {
	case schema.LiteralInt:
		return jen.Lit(lit.IntValue)
	case schema.LiteralBool:
		return jen.Lit(lit.BoolValue)
	case schema.LiteralString:
		return jen.Lit(lit.StringValue)
	default:
		return jen.Nil()
	}
}

func emitStruct(file *jen.File, resource ir.Resource, program *ir.Program, wrappers *wrapperSet) {
	file.Type().Id(resource.Name).StructFunc(func(g *jen.Group) {
		for _, field := range resource.Fields {
			g.Id(title(field.Name)).Add(goFieldType(field, program, wrappers))
		}
	})
}

func emitConstructor(file *jen.File, resource ir.Resource) {
	file.Func().Id("New" + resource.Name).Params().Op("*").Id(resource.Name).Block(
		jen.Return(jen.Op("&").Id(resource.Name).Values()),
	)
}

func emitSetters(file *jen.File, resource ir.Resource, program *ir.Program, wrappers *wrapperSet) {
	for _, field := range resource.Fields {
		field := field
		base := goBaseType(field.Type, program)

		file.Func().Params(
			jen.Id("r").Op("*").Id(resource.Name),
		).Id("With"+title(field.Name)).Params(
			jen.Id("v").Add(base),
		).Op("*").Id(resource.Name).BlockFunc(func(g *jen.Group) {
			target := jen.Id("r").Dot(title(field.Name))
			switch {
			case field.Optional || field.Nullable:
				wrapper := wrappers.require(field.Type, program)
				g.Add(target).Op("=").Id(wrapper).Values(jen.Dict{
					jen.Id("Present"): jen.True(),
					jen.Id("Value"):   jen.Id("v"),
				})
			default:
				g.Add(target).Op("=").Id("v")
			}
			g.Return(jen.Id("r"))
		})
	}
}

func emitEncode(file *jen.File, resource ir.Resource) {
	file.Func().Params(
		jen.Id("r").Op("*").Id(resource.Name),
	).Id("Encode").Params().Params(jen.Index().Byte(), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.Id("buf").Op(":=").Op("&").Qual("bytes", "Buffer").Values()
		for _, field := range resource.Fields {
			emitEncodeField(g, field, jen.Id("r").Dot(title(field.Name)).Clone())
		}
		g.Return(jen.Id("buf").Dot("Bytes").Call(), jen.Nil())
	})
}

// emitEncodeField appends the statements that write one field's wire
// representation (optional/nullable framing, then the base value) into buf.
func emitEncodeField(g *jen.Group, f ir.Field, value *jen.Statement) {
	if !f.Optional && !f.Nullable {
		emitEncodeValue(g, value, f.Type, f.Name)
		return
	}

	if f.Optional {
		g.If(value.Clone().Dot("Present")).BlockFunc(func(g2 *jen.Group) {
			g2.Id("buf").Dot("WriteByte").Call(jen.Lit(1))
			emitEncodeNullableOrValue(g2, f, value)
		}).Else().BlockFunc(func(g2 *jen.Group) {
			g2.Id("buf").Dot("WriteByte").Call(jen.Lit(0))
		})
		return
	}

	emitEncodeNullableOrValue(g, f, value)
}

func emitEncodeNullableOrValue(g *jen.Group, f ir.Field, value *jen.Statement) {
	if !f.Nullable {
		emitEncodeValue(g, value.Clone().Dot("Value"), f.Type, f.Name)
		return
	}

	g.If(value.Clone().Dot("Null")).BlockFunc(func(g2 *jen.Group) {
		g2.Id("buf").Dot("WriteByte").Call(jen.Lit(0))
	}).Else().BlockFunc(func(g2 *jen.Group) {
		g2.Id("buf").Dot("WriteByte").Call(jen.Lit(1))
		emitEncodeValue(g2, value.Clone().Dot("Value"), f.Type, f.Name)
	})
}

// emitEncodeValue appends the statements that write the base (unframed)
// value held by the jennifer expression 'value' as IR type t. suffix is a
// unique-within-scope name fragment used to mint temporary variables,
// derived from the enclosing field name (and extended per list-nesting
// level) so sibling fields and nested lists never collide.
func emitEncodeValue(g *jen.Group, value *jen.Statement, t ir.Type, suffix string) {
	switch tt := t.(type) {
	case ir.PrimitiveType:
		switch tt.Name {
		case "string":
			g.Id("writeString").Call(jen.Id("buf"), value)
		case "number":
			g.Id("writeInt64").Call(jen.Id("buf"), value)
		case "bool":
			g.Id("writeBool").Call(jen.Id("buf"), value)
		}

	case ir.ListType:
		g.Id("writeUint32").Call(jen.Id("buf"), jen.Uint32().Call(jen.Len(value)))
		itemVar := "item_" + suffix
		g.For(
			jen.List(jen.Id("_"), jen.Id(itemVar)).Op(":=").Range().Add(value),
		).BlockFunc(func(body *jen.Group) {
			emitEncodeValue(body, jen.Id(itemVar), tt.Elem, itemVar)
		})

	case ir.ResourceRef:
		bVar, errVar := "b_"+suffix, "err_"+suffix
		g.List(jen.Id(bVar), jen.Id(errVar)).Op(":=").Add(value).Dot("Encode").Call()
		g.If(jen.Id(errVar).Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Id(errVar)),
		)
		g.Id("buf").Dot("Write").Call(jen.Id(bVar))
	}
}

// goBaseType maps an IR type to its unwrapped Go type (i.e. without the
// Present/Null wrapper struct optional/nullable fields add on top).
func goBaseType(t ir.Type, program *ir.Program) *jen.Statement {
	switch tt := t.(type) {
	case ir.PrimitiveType:
		switch tt.Name {
		case "string":
			return jen.String()
		case "number":
			return jen.Int64()
		case "bool":
			return jen.Bool()
		default:
			return jen.Any()
		}
	case ir.ListType:
		return jen.Index().Add(goBaseType(tt.Elem, program))
	case ir.ResourceRef:
		return jen.Op("*").Id(program.Resources[tt.Index].Name)
	default:
		return jen.Any()
	}
}

// goFieldType maps an IR field to its Go struct-member type: the base type,
// wrapped in its concrete Present/Null wrapper struct if the field is
// optional and/or nullable.
func goFieldType(f ir.Field, program *ir.Program, wrappers *wrapperSet) *jen.Statement {
	if f.Optional || f.Nullable {
		return jen.Id(wrappers.require(f.Type, program))
	}
	return goBaseType(f.Type, program)
}
