package results

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Sanitize converts a value tree into plain maps/slices with every NaN and
// Inf replaced by nil, so encoding/json can serialize it. Struct fields are
// keyed by their json tags.
func Sanitize(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	return sanitizeValue(reflect.ValueOf(v))
}

func sanitizeValue(rv reflect.Value) interface{} {
	switch rv.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return sanitizeValue(rv.Elem())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case reflect.Struct:
		return sanitizeStruct(rv)
	case reflect.Map:
		return sanitizeMap(rv)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitizeValue(rv.Index(i))
		}
		return out
	default:
		return rv.Interface()
	}
}

func sanitizeStruct(rv reflect.Value) interface{} {
	t := rv.Type()

	// time-like types marshal themselves
	if m, ok := rv.Interface().(interface{ MarshalJSON() ([]byte, error) }); ok {
		if data, err := m.MarshalJSON(); err == nil {
			return jsonRaw(data)
		}
	}

	out := make(map[string]interface{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		name, omitEmpty := jsonFieldName(field)
		if name == "-" {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		out[name] = sanitizeValue(fv)
	}
	return out
}

func sanitizeMap(rv reflect.Value) interface{} {
	if rv.IsNil() {
		return nil
	}
	out := make(map[string]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[mapKeyString(iter.Key())] = sanitizeValue(iter.Value())
	}
	return out
}

func jsonFieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, false
	}
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = field.Name
	}
	omitEmpty := false
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}

func mapKeyString(key reflect.Value) string {
	switch key.Kind() {
	case reflect.String:
		return key.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(key.Int(), 10)
	default:
		return key.String()
	}
}

// jsonRaw marks pre-marshaled JSON so MarshalJSON passes it through.
type jsonRaw []byte

func (r jsonRaw) MarshalJSON() ([]byte, error) { return []byte(r), nil }
