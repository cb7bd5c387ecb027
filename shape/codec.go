package shape

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType is returned when decoding a primitive with an unrecognized
// "type" discriminator.
var ErrUnknownType = errors.New("shape: unknown primitive type")

// Primitives are encoded as flat JSON objects with a "type" discriminator:
//
//	{"type":"rect","x":0,"y":0,"width":100,"height":60,"rx":4}

// marshalTagged prefixes the encoded body object with the type field.
func marshalTagged(t Type, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(data) + 16)
	buf.WriteString(`{"type":`)
	buf.WriteString(`"` + t.String() + `"`)
	if len(data) > 2 {
		buf.WriteByte(',')
		buf.Write(data[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (r Rectangle) MarshalJSON() ([]byte, error) {
	type plain Rectangle
	return marshalTagged(TypeRect, plain(r))
}

// MarshalJSON implements json.Marshaler.
func (e Ellipse) MarshalJSON() ([]byte, error) {
	type plain Ellipse
	return marshalTagged(TypeEllipse, plain(e))
}

// MarshalJSON implements json.Marshaler.
func (l Line) MarshalJSON() ([]byte, error) {
	type plain Line
	return marshalTagged(TypeLine, plain(l))
}

// MarshalJSON implements json.Marshaler.
func (p Polyline) MarshalJSON() ([]byte, error) {
	type plain Polyline
	return marshalTagged(TypePolyline, plain(p))
}

// MarshalJSON implements json.Marshaler.
func (p Polygon) MarshalJSON() ([]byte, error) {
	type plain Polygon
	return marshalTagged(TypePolygon, plain(p))
}

// MarshalJSON implements json.Marshaler.
func (p Path) MarshalJSON() ([]byte, error) {
	type plain Path
	return marshalTagged(TypePath, plain(p))
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	type plain Text
	return marshalTagged(TypeText, plain(t))
}

// MarshalJSON implements json.Marshaler.
func (g Group) MarshalJSON() ([]byte, error) {
	type plain Group
	return marshalTagged(TypeGroup, plain(g))
}

// UnmarshalJSON decodes a JSON array of tagged primitives.
func (l *List) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	if raws == nil {
		*l = nil
		return nil
	}
	out := make(List, 0, len(raws))
	for i, raw := range raws {
		p, err := UnmarshalPrimitive(raw)
		if err != nil {
			return fmt.Errorf("shape: primitive %d: %w", i, err)
		}
		out = append(out, p)
	}
	*l = out
	return nil
}

// UnmarshalPrimitive decodes one tagged primitive.
func UnmarshalPrimitive(data []byte) (Primitive, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	t, ok := parseType(head.Type)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, head.Type)
	}
	switch t {
	case TypeRect:
		return decode[Rectangle](data)
	case TypeEllipse:
		return decode[Ellipse](data)
	case TypeLine:
		return decode[Line](data)
	case TypePolyline:
		return decode[Polyline](data)
	case TypePolygon:
		return decode[Polygon](data)
	case TypePath:
		return decode[Path](data)
	case TypeText:
		return decode[Text](data)
	default:
		return decode[Group](data)
	}
}

func decode[T Primitive](data []byte) (Primitive, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
