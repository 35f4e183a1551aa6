package tags

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Convert turns an argument literal into a value of type t, so it can be
// passed to a factory method parameter of that type.
func (a Arg) Convert(t reflect.Type) (reflect.Value, error) {
	if t == durationType {
		d, err := time.ParseDuration(a.Value)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert %q to %s: %w", a.Value, t, err)
		}
		return reflect.ValueOf(d), nil
	}

	value := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		value.SetString(a.Value)
	case reflect.Bool:
		b, err := parseBoolString(a.Value)
		if err != nil {
			return reflect.Value{}, err
		}
		value.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(a.Value, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert %q to %s: %w", a.Value, t, err)
		}
		value.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(a.Value, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert %q to %s: %w", a.Value, t, err)
		}
		value.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(a.Value, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert %q to %s: %w", a.Value, t, err)
		}
		value.SetFloat(f)
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return reflect.Value{}, fmt.Errorf("cannot pass literal %q as %s", a.Value, t)
		}
		value.Set(reflect.ValueOf(a.literal()))
	default:
		return reflect.Value{}, fmt.Errorf("cannot pass literal %q as %s", a.Value, t)
	}
	return value, nil
}

// literal returns the natural Go value of the argument, for untyped parameters
func (a Arg) literal() interface{} {
	switch a.Kind {
	case NumberArg:
		if i, err := strconv.Atoi(a.Value); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(a.Value, 64); err == nil {
			return f
		}
	case WordArg:
		if b, err := parseBoolString(a.Value); err == nil {
			return b
		}
	}
	return a.Value
}

func parseBoolString(s string) (bool, error) {
	switch s {
	case "true", "True", "TRUE", "1", "yes", "Yes", "YES", "on", "On", "ON":
		return true, nil
	case "false", "False", "FALSE", "0", "no", "No", "NO", "off", "Off", "OFF":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s", s)
	}
}
