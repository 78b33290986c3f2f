package toml

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
	"time"
)

// =========================
// Decoding Into Go Values
// =========================

// Decoder reads and decodes a TOML document from an input stream.
type Decoder struct {
	r io.Reader
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode parses the stream and stores the document in the value pointed
// to by v.
func (dec *Decoder) Decode(v any) error {
	root, err := Parse(dec.r)
	if err != nil {
		return err
	}
	return decodeRoot(v, root)
}

// Unmarshal parses TOML data and stores the result in the value pointed
// to by v. Tables decode into structs (honoring `toml:"name"` tags) or
// maps, arrays into slices, scalars into their Go counterparts, and
// offset date-times, local date-times and local dates convert to
// time.Time where the target asks for it (the local kinds in time.Local).
// A local time does not convert to time.Time.
// If v is nil or not a pointer, an error is returned.
func Unmarshal(data []byte, v any) error {
	root, err := ParseBytes(data)
	if err != nil {
		return err
	}
	return decodeRoot(v, root)
}

func decodeRoot(dst any, root *Table) error {
	if dst == nil {
		return errors.New("cannot unmarshal into a nil value")
	}
	val := reflect.ValueOf(dst)
	if val.Kind() != reflect.Ptr {
		return errors.New("destination is not a pointer")
	}
	if val.IsNil() {
		return errors.New("destination pointer is nil")
	}
	return setNode(val.Elem(), root)
}

var timeType = reflect.TypeOf(time.Time{})

// setNode recursively assigns a parsed node to dst.
func setNode(dst reflect.Value, n Node) error {
	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		dst.Set(reflect.ValueOf(ToUntyped(n)))
		return nil
	}
	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return setNode(dst.Elem(), n)
	}

	switch v := n.(type) {
	case *Table:
		switch dst.Kind() {
		case reflect.Struct:
			return setStruct(dst, v)
		case reflect.Map:
			return setMap(dst, v)
		}
		return fmt.Errorf("cannot unmarshal table into %s", dst.Type())
	case *Array:
		if dst.Kind() != reflect.Slice {
			return fmt.Errorf("cannot unmarshal array into %s", dst.Type())
		}
		out := reflect.MakeSlice(dst.Type(), len(v.Elems), len(v.Elems))
		for i, e := range v.Elems {
			if err := setNode(out.Index(i), e); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		dst.Set(out)
		return nil
	case *Value:
		return setScalar(dst, v)
	}
	return fmt.Errorf("cannot unmarshal %T", n)
}

// setStruct maps table entries onto exported struct fields.
func setStruct(dst reflect.Value, t *Table) error {
	st := dst.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		fv := dst.Field(i)
		if !fv.CanSet() {
			continue
		}
		name := fieldName(field)
		if name == "-" {
			continue
		}
		n, ok := t.Items[name]
		if !ok {
			continue
		}
		if err := setNode(fv, n); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

// fieldName returns the key a struct field maps to, honoring the toml
// struct tag.
func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("toml")
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return field.Name
	}
	return tag
}

func setMap(dst reflect.Value, t *Table) error {
	mt := dst.Type()
	if mt.Key().Kind() != reflect.String {
		return errors.New("maps with non-string keys are not supported")
	}
	out := reflect.MakeMapWithSize(mt, len(t.Items))
	for _, k := range t.keys {
		ev := reflect.New(mt.Elem()).Elem()
		if err := setNode(ev, t.Items[k]); err != nil {
			return fmt.Errorf("key %s: %w", k, err)
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(mt.Key()), ev)
	}
	dst.Set(out)
	return nil
}

func setScalar(dst reflect.Value, v *Value) error {
	sv := reflect.ValueOf(v.V)
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}

	if dst.Type() == timeType {
		switch dv := v.V.(type) {
		case OffsetDateTime:
			dst.Set(reflect.ValueOf(dv.AsTime()))
			return nil
		case LocalDateTime:
			dst.Set(reflect.ValueOf(dv.AsTime(time.Local)))
			return nil
		case LocalDate:
			dst.Set(reflect.ValueOf(dv.AsTime(time.Local)))
			return nil
		}
		return fmt.Errorf("cannot unmarshal %T into time.Time", v.V)
	}

	switch dst.Kind() {
	case reflect.String:
		s, ok := v.V.(string)
		if !ok {
			return fmt.Errorf("cannot unmarshal %T into string", v.V)
		}
		dst.SetString(s)
		return nil
	case reflect.Bool:
		b, ok := v.V.(bool)
		if !ok {
			return fmt.Errorf("cannot unmarshal %T into bool", v.V)
		}
		dst.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setInt(dst, v.V)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return setUint(dst, v.V)
	case reflect.Float32, reflect.Float64:
		return setFloat(dst, v.V)
	}
	return fmt.Errorf("cannot unmarshal %T into %s", v.V, dst.Type())
}

func setInt(dst reflect.Value, src any) error {
	switch v := src.(type) {
	case int64:
		if dst.OverflowInt(v) {
			return fmt.Errorf("value %d overflows %s", v, dst.Type())
		}
		dst.SetInt(v)
		return nil
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("cannot unmarshal float %g into integer type", v)
		}
		iv := int64(v)
		if dst.OverflowInt(iv) {
			return fmt.Errorf("value %g overflows %s", v, dst.Type())
		}
		dst.SetInt(iv)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %T into integer", src)
}

func setUint(dst reflect.Value, src any) error {
	switch v := src.(type) {
	case int64:
		if v < 0 {
			return fmt.Errorf("cannot unmarshal negative value %d into unsigned integer", v)
		}
		uv := uint64(v)
		if dst.OverflowUint(uv) {
			return fmt.Errorf("value %d overflows %s", v, dst.Type())
		}
		dst.SetUint(uv)
		return nil
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return fmt.Errorf("cannot unmarshal float %g into unsigned integer", v)
		}
		uv := uint64(v)
		if dst.OverflowUint(uv) {
			return fmt.Errorf("value %g overflows %s", v, dst.Type())
		}
		dst.SetUint(uv)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %T into unsigned integer", src)
}

func setFloat(dst reflect.Value, src any) error {
	switch v := src.(type) {
	case int64:
		fv := float64(v)
		if dst.OverflowFloat(fv) {
			return fmt.Errorf("value %d overflows %s", v, dst.Type())
		}
		dst.SetFloat(fv)
		return nil
	case float64:
		if dst.OverflowFloat(v) {
			return fmt.Errorf("value %g overflows %s", v, dst.Type())
		}
		dst.SetFloat(v)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %T into float", src)
}
