package statem

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// A Call names a method on the system under test together with its
// arguments. It is a ready-made command type for machines whose
// semantics just invoke methods.
type Call struct {
	Method string
	Args   []any
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("%v(%v)", c.Method, strings.Join(args, ", "))
}

var ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()

// Dispatch returns a Semantics function that invokes the named method on
// sut by reflection, so small systems need no hand-written command
// switch.
//
// When the first parameter of the method is a context.Context, the
// context of the run is passed. The method may return nothing, a single
// value, a single error, or a value and an error; a trailing error
// return is reported as the error of the step.
func Dispatch(sut any) func(context.Context, Call) (any, error) {
	v := reflect.ValueOf(sut)
	return func(ctx context.Context, call Call) (any, error) {
		method := v.MethodByName(call.Method)
		if !method.IsValid() {
			return nil, fmt.Errorf("statem: %T has no method %v", sut, call.Method)
		}
		mt := method.Type()

		offset := 0
		if mt.NumIn() > 0 && mt.In(0) == ctxType {
			offset = 1
		}
		switch {
		case !mt.IsVariadic() && len(call.Args)+offset != mt.NumIn():
			return nil, fmt.Errorf("statem: method %v takes %v arguments, got %v", call.Method, mt.NumIn()-offset, len(call.Args))
		case mt.IsVariadic() && len(call.Args)+offset < mt.NumIn()-1:
			return nil, fmt.Errorf("statem: method %v takes at least %v arguments, got %v", call.Method, mt.NumIn()-1-offset, len(call.Args))
		}

		args := make([]reflect.Value, 0, len(call.Args)+offset)
		if offset == 1 {
			args = append(args, reflect.ValueOf(ctx))
		}
		for i, a := range call.Args {
			if a == nil {
				args = append(args, reflect.Zero(paramType(mt, i+offset)))
				continue
			}
			args = append(args, reflect.ValueOf(a))
		}

		results := method.Call(args)
		var resp any
		var err error
		switch len(results) {
		case 0:
		case 1:
			if e, ok := results[0].Interface().(error); ok {
				err = e
			} else {
				resp = results[0].Interface()
			}
		case 2:
			resp = results[0].Interface()
			if e, ok := results[1].Interface().(error); ok {
				err = e
			}
		default:
			return nil, fmt.Errorf("statem: method %v returns %v values", call.Method, len(results))
		}
		return resp, err
	}
}

// Returns the type of the i-th argument, unwrapping the slice type of a
// variadic tail.
func paramType(mt reflect.Type, i int) reflect.Type {
	if mt.IsVariadic() && i >= mt.NumIn()-1 {
		return mt.In(mt.NumIn() - 1).Elem()
	}
	return mt.In(i)
}
