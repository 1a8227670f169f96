package script

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// toLua converts a payload value into a Lua value. Payloads come from TOML
// or from Go callers, so maps with string keys, slices, numbers of any
// width, strings, booleans and times are understood. Anything else is
// handed to Lua as userdata.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case []byte:
		return lua.LString(val)
	case time.Time:
		return lua.LString(val.Format(time.RFC3339Nano))
	case map[string]any:
		t := L.CreateTable(0, len(val))
		// Insertion order fixes pairs() iteration order across runs.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			t.RawSetString(k, toLua(L, val[k]))
		}
		return t
	case []any:
		t := L.CreateTable(len(val), 0)
		for i, item := range val {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t
	case fmt.Stringer:
		// toml.LocalDate, LocalTime and LocalDateTime.
		return lua.LString(val.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())
	case reflect.String:
		return lua.LString(rv.String())
	case reflect.Bool:
		return lua.LBool(rv.Bool())
	case reflect.Pointer:
		if rv.IsNil() {
			return lua.LNil
		}
		return toLua(L, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		t := L.CreateTable(rv.Len(), 0)
		for i := 0; i < rv.Len(); i++ {
			t.RawSetInt(i+1, toLua(L, rv.Index(i).Interface()))
		}
		return t
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		t := L.CreateTable(0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			t.RawSetString(iter.Key().String(), toLua(L, iter.Value().Interface()))
		}
		return t
	}

	ud := L.NewUserData()
	ud.Value = v
	return ud
}

// fromLua converts a Lua value into plain Go data. Integral numbers become
// int64 and other numbers float64. A table whose keys are exactly 1..n
// becomes []any, any other table map[string]any. Functions, threads and
// cyclic references become nil.
func fromLua(v lua.LValue) any {
	return convertLua(v, make(map[*lua.LTable]struct{}))
}

func convertLua(v lua.LValue, path map[*lua.LTable]struct{}) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LString:
		return string(val)
	case lua.LNumber:
		f := float64(val)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f)
		}
		return f
	case *lua.LUserData:
		return val.Value
	case *lua.LTable:
		if _, ok := path[val]; ok {
			return nil
		}
		path[val] = struct{}{}
		defer delete(path, val)
		return convertTable(val, path)
	default:
		return nil
	}
}

func convertTable(t *lua.LTable, path map[*lua.LTable]struct{}) any {
	if n := t.Len(); n > 0 && tableSize(t) == n {
		list := make([]any, n)
		for i := 0; i < n; i++ {
			list[i] = convertLua(t.RawGetInt(i+1), path)
		}
		return list
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = convertLua(v, path)
	})
	return m
}

func tableSize(t *lua.LTable) int {
	n := 0
	t.ForEach(func(_, _ lua.LValue) { n++ })
	return n
}
