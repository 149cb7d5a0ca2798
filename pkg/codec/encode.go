package codec

import (
	"bytes"
	"encoding/binary"

	"its-hmny.dev/resourcec/pkg/diag"
	"its-hmny.dev/resourcec/pkg/ir"
)

// Encoder is the reference implementation of the wire format: one dispatch
// method per IR type shape, switched on the concrete Go type.
type Encoder struct {
	program *ir.Program
}

func NewEncoder(program *ir.Program) Encoder { return Encoder{program: program} }

// EncodeValue encodes v as a value of IR type t, with no optional/nullable
// framing - that framing is applied one level up, by EncodeField.
func (e Encoder) EncodeValue(v Value, t ir.Type) ([]byte, error) {
	switch tt := t.(type) {
	case ir.PrimitiveType:
		return e.encodePrimitive(v, tt)
	case ir.ListType:
		return e.encodeList(v, tt)
	case ir.ResourceRef:
		return e.encodeResource(v, tt)
	default:
		return nil, diag.New(diag.Encoding, "unrecognized IR type %T", t)
	}
}

func (e Encoder) encodePrimitive(v Value, t ir.PrimitiveType) ([]byte, error) {
	switch t.Name {
	case "string":
		if v.Kind != KindString {
			return nil, diag.New(diag.Encoding, "expected a string value, got kind %d", v.Kind)
		}
		buf := make([]byte, 4+len(v.Str))
		binary.LittleEndian.PutUint32(buf, uint32(len(v.Str)))
		copy(buf[4:], v.Str)
		return buf, nil

	case "number":
		if v.Kind != KindNumber {
			return nil, diag.New(diag.Encoding, "expected a number value, got kind %d", v.Kind)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(v.Num))
		return buf, nil

	case "bool":
		if v.Kind != KindBool {
			return nil, diag.New(diag.Encoding, "expected a bool value, got kind %d", v.Kind)
		}
		if v.Bool {
			return []byte{0x01}, nil
		}
		return []byte{0x00}, nil

	default:
		return nil, diag.New(diag.Encoding, "invalid primitive type %q", t.Name)
	}
}

func (e Encoder) encodeList(v Value, t ir.ListType) ([]byte, error) {
	if v.Kind != KindList {
		return nil, diag.New(diag.Encoding, "expected a list value, got kind %d", v.Kind)
	}

	var buf bytes.Buffer
	count := make([]byte, 4)
	binary.LittleEndian.PutUint32(count, uint32(len(v.List)))
	buf.Write(count)

	for _, item := range v.List {
		encoded, err := e.EncodeValue(item, t.Elem)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}

	return buf.Bytes(), nil
}

func (e Encoder) encodeResource(v Value, t ir.ResourceRef) ([]byte, error) {
	if v.Kind != KindResource {
		return nil, diag.New(diag.Encoding, "expected a resource value, got kind %d", v.Kind)
	}

	resource := e.program.Resources[t.Index]
	if len(v.Resource) != len(resource.Fields) {
		return nil, diag.New(diag.Encoding, "resource %q expects %d fields, got %d",
			resource.Name, len(resource.Fields), len(v.Resource))
	}

	var buf bytes.Buffer
	for i, field := range resource.Fields {
		encoded, err := e.EncodeField(v.Resource[i], field)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}

	return buf.Bytes(), nil
}

// EncodeField applies a field's optional/nullable framing (outside the base
// type) and then encodes the underlying value, if any.
func (e Encoder) EncodeField(fv FieldValue, f ir.Field) ([]byte, error) {
	var buf bytes.Buffer

	if f.Optional {
		if fv.Value.Kind == KindAbsent {
			buf.WriteByte(0x00)
			return buf.Bytes(), nil
		}
		buf.WriteByte(0x01)
	} else if fv.Value.Kind == KindAbsent {
		return nil, diag.New(diag.Encoding, "field %q is not optional but its value is absent", f.Name)
	}

	if f.Nullable {
		if fv.Value.Kind == KindNull {
			buf.WriteByte(0x00)
			return buf.Bytes(), nil
		}
		buf.WriteByte(0x01)
	} else if fv.Value.Kind == KindNull {
		return nil, diag.New(diag.Encoding, "field %q is not nullable but its value is null", f.Name)
	}

	encoded, err := e.EncodeValue(fv.Value, f.Type)
	if err != nil {
		return nil, err
	}
	buf.Write(encoded)

	return buf.Bytes(), nil
}
