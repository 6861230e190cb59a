package ir

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
)

// Encoder is implemented by object values that choose their own canonical
// form. Values that do not implement it are converted through encoding/json.
type Encoder interface {
	IR() IRValue
}

// FromGo converts an arbitrary Go value into its canonical IRValue.
//
// IRValues and Encoders are used as is. Everything else is marshaled with
// encoding/json and decoded back, so struct tags apply and exported fields
// are the canonical content of an object. A struct whose fields are all
// unexported would encode as {} whatever it holds, so it is an error unless
// it implements Encoder.
func FromGo(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return IRNull{}, nil
	case IRValue:
		return val, nil
	case Encoder:
		return val.IR(), nil
	case string:
		return IRString(val), nil
	case bool:
		return IRBool(val), nil
	case int:
		return IRInt(val), nil
	case int64:
		return IRInt(val), nil
	case float64:
		return Number(val)
	}

	if hidden(reflect.ValueOf(v)) {
		return nil, fmt.Errorf("convert %T: struct has no exported fields", v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert %T: %w", v, err)
	}
	iv, err := UnmarshalIRValue(data)
	if err != nil {
		return nil, fmt.Errorf("convert %T: %w", v, err)
	}
	return iv, nil
}

var marshalers = []reflect.Type{
	reflect.TypeOf((*json.Marshaler)(nil)).Elem(),
	reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem(),
}

// hidden reports whether v is, or points to, a struct with fields of which
// encoding/json sees none. Embedded fields count as visible.
func hidden(v reflect.Value) bool {
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return false
	}
	t := v.Type()
	for _, m := range marshalers {
		if t.Implements(m) || reflect.PointerTo(t).Implements(m) {
			return false
		}
	}
	if t.NumField() == 0 {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.IsExported() || f.Anonymous {
			return false
		}
	}
	return true
}
