// Package outbox convierte eventos de dominio en filas del outbox y las escribe
// en la misma transacción que el estado del agregado.
package outbox

import (
	"database/sql/driver"
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

var (
	timeType          = reflect.TypeOf(time.Time{})
	valuerType        = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Serialize produce el payload plano de un evento: eventType, occurredAt (ISO-8601 UTC)
// y cada campo declarado con su nombre JSON. Los envoltorios de valor se reducen a su valor crudo.
func Serialize(evt events.DomainEvent) (map[string]interface{}, error) {
	if evt == nil {
		return nil, errors.New("cannot serialize nil event")
	}

	v := reflect.ValueOf(evt)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot serialize nil %T", evt)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("event %T is not a struct", evt)
	}

	payload := make(map[string]interface{})
	if err := writeFields(payload, v); err != nil {
		return nil, fmt.Errorf("serialize %s: %w", evt.EventType(), err)
	}

	occurred := evt.OccurredAt()
	if occurred.IsZero() {
		occurred = time.Now()
	}
	payload["eventType"] = evt.EventType()
	payload["occurredAt"] = formatTime(occurred)
	return payload, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// writeFields vuelca los campos exportados de v en dst usando las etiquetas json.
// Los structs embebidos sin etiqueta se aplanan, igual que hace encoding/json.
func writeFields(dst map[string]interface{}, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" && !field.Anonymous {
			continue
		}

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := v.Field(i)

		if field.Anonymous && name == "" {
			inner := fv
			if inner.Kind() == reflect.Ptr {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct && !isWrapper(inner) {
				if err := writeFields(dst, inner); err != nil {
					return err
				}
				continue
			}
		}
		if field.PkgPath != "" {
			continue
		}

		if name == "" {
			name = field.Name
		}
		if strings.Contains(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}

		raw, err := rawValue(fv)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		dst[name] = raw
	}
	return nil
}

// isWrapper indica si el valor tiene su propia representación cruda.
func isWrapper(v reflect.Value) bool {
	t := v.Type()
	if t == timeType {
		return true
	}
	return t.Implements(valuerType) || t.Implements(textMarshalerType) ||
		reflect.PointerTo(t).Implements(valuerType) || reflect.PointerTo(t).Implements(textMarshalerType)
}

// rawValue reduce v a tipos JSON básicos de forma recursiva.
func rawValue(v reflect.Value) (interface{}, error) {
	if !v.IsValid() {
		return nil, nil
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
	}

	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case time.Time:
			return formatTime(x), nil
		case *time.Time:
			return formatTime(*x), nil
		case driver.Valuer:
			val, err := x.Value()
			if err != nil {
				return nil, err
			}
			if ts, ok := val.(time.Time); ok {
				return formatTime(ts), nil
			}
			if b, ok := val.([]byte); ok {
				return string(b), nil
			}
			return val, nil
		case encoding.TextMarshaler:
			text, err := x.MarshalText()
			if err != nil {
				return nil, err
			}
			return string(text), nil
		}
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rawValue(v.Elem())
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.String:
		return v.String(), nil
	case reflect.Struct:
		out := make(map[string]interface{})
		if err := writeFields(out, v); err != nil {
			return nil, err
		}
		return out, nil
	case reflect.Slice:
		if v.IsNil() {
			return nil, nil
		}
		fallthrough
	case reflect.Array:
		out := make([]interface{}, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := rawValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = elem
		}
		return out, nil
	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		out := make(map[string]interface{}, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			elem, err := rawValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out[mapKey(iter.Key())] = elem
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", v.Kind())
	}
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if text, err := tm.MarshalText(); err == nil {
			return string(text)
		}
	}
	return fmt.Sprint(k.Interface())
}

// isEmptyValue replica el criterio de omitempty de encoding/json.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
