// Package access writes struct fields regardless of their visibility.
//
// It is the only place in the module that bypasses Go's export rules.
package access

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Set writes value into the field of root reached through index, the
// same path reflect.Value.FieldByIndex takes. Nil embedded pointers met
// on the way are allocated. root must be an addressable struct.
func Set(root reflect.Value, index []int, value reflect.Value) error {
	field, err := Field(root, index)
	if err != nil {
		return err
	}
	if !value.IsValid() {
		field.SetZero()
		return nil
	}
	if !value.Type().AssignableTo(field.Type()) {
		return fmt.Errorf("value of type %s is not assignable to field of type %s", value.Type(), field.Type())
	}
	field.Set(value)
	return nil
}

// Field returns a settable view of the field of root reached through
// index, allocating nil embedded pointers on the way.
func Field(root reflect.Value, index []int) (reflect.Value, error) {
	if len(index) == 0 {
		return reflect.Value{}, fmt.Errorf("empty field index")
	}
	if root.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("expected a struct, got %s", root.Kind())
	}
	if !root.CanAddr() {
		return reflect.Value{}, fmt.Errorf("struct %s is not addressable", root.Type())
	}

	v := root
	for i, x := range index {
		if i > 0 {
			if v.Kind() == reflect.Pointer {
				if v.IsNil() {
					settable(v).Set(reflect.New(v.Type().Elem()))
				}
				v = v.Elem()
			}
			if v.Kind() != reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field index %v passes through non-struct %s", index, v.Type())
			}
		}
		if x < 0 || x >= v.NumField() {
			return reflect.Value{}, fmt.Errorf("field index %d out of range for %s", x, v.Type())
		}
		v = v.Field(x)
	}
	return settable(v), nil
}

func settable(v reflect.Value) reflect.Value {
	if v.CanSet() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}
