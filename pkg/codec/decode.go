package codec

import (
	"encoding/binary"

	"its-hmny.dev/resourcec/pkg/diag"
	"its-hmny.dev/resourcec/pkg/ir"
)

// Decoder is the mirror image of Encoder: it reads the same bit-exact wire
// format back into a Value tree, byte by byte, off an internal cursor.
type Decoder struct {
	program *ir.Program
	buf     []byte
	pos     int
}

func NewDecoder(program *ir.Program, data []byte) *Decoder {
	return &Decoder{program: program, buf: data}
}

func (d *Decoder) take(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, diag.New(diag.Encoding, "unexpected end of input: need %d bytes, have %d", n, len(d.buf)-d.pos)
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// DecodeValue decodes a value of IR type t with no optional/nullable
// framing - that framing is handled one level up, by DecodeField.
func (d *Decoder) DecodeValue(t ir.Type) (Value, error) {
	switch tt := t.(type) {
	case ir.PrimitiveType:
		return d.decodePrimitive(tt)
	case ir.ListType:
		return d.decodeList(tt)
	case ir.ResourceRef:
		return d.decodeResource(tt)
	default:
		return Value{}, diag.New(diag.Encoding, "unrecognized IR type %T", t)
	}
}

func (d *Decoder) decodePrimitive(t ir.PrimitiveType) (Value, error) {
	switch t.Name {
	case "string":
		lenBytes, err := d.take(4)
		if err != nil {
			return Value{}, err
		}
		n := binary.LittleEndian.Uint32(lenBytes)

		strBytes, err := d.take(int(n))
		if err != nil {
			return Value{}, err
		}
		return StringValue(string(strBytes)), nil

	case "number":
		numBytes, err := d.take(8)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(int64(binary.LittleEndian.Uint64(numBytes))), nil

	case "bool":
		boolBytes, err := d.take(1)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(boolBytes[0] != 0x00), nil

	default:
		return Value{}, diag.New(diag.Encoding, "invalid primitive type %q", t.Name)
	}
}

func (d *Decoder) decodeList(t ir.ListType) (Value, error) {
	countBytes, err := d.take(4)
	if err != nil {
		return Value{}, err
	}
	count := binary.LittleEndian.Uint32(countBytes)

	items := make([]Value, 0, count)
	for i := uint32(0); i < count; i++ {
		item, err := d.DecodeValue(t.Elem)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}

	return ListValue(items), nil
}

func (d *Decoder) decodeResource(t ir.ResourceRef) (Value, error) {
	resource := d.program.Resources[t.Index]

	fields := make([]FieldValue, len(resource.Fields))
	for i, field := range resource.Fields {
		fv, err := d.DecodeField(field)
		if err != nil {
			return Value{}, err
		}
		fields[i] = fv
	}

	return ResourceValue(fields), nil
}

// DecodeField reads a field's optional/nullable framing and then its
// underlying value, if present and non-null.
func (d *Decoder) DecodeField(f ir.Field) (FieldValue, error) {
	if f.Optional {
		presentByte, err := d.take(1)
		if err != nil {
			return FieldValue{}, err
		}
		if presentByte[0] == 0x00 {
			return FieldValue{Name: f.Name, Value: AbsentValue()}, nil
		}
	}

	if f.Nullable {
		nonNullByte, err := d.take(1)
		if err != nil {
			return FieldValue{}, err
		}
		if nonNullByte[0] == 0x00 {
			return FieldValue{Name: f.Name, Value: NullValue()}, nil
		}
	}

	value, err := d.DecodeValue(f.Type)
	if err != nil {
		return FieldValue{}, err
	}
	return FieldValue{Name: f.Name, Value: value}, nil
}
