package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// maxDepth bounds recursion so cyclic structures degrade to text instead of
// overflowing the stack. Legitimate log payloads never come close.
const maxDepth = 64

// Walk applies fn to every field of ctx, recursing through maps and slices,
// and returns a copy that encoding/json is guaranteed to accept. The input is
// never mutated.
func Walk(ctx map[string]any, fn Func) map[string]any {
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = walkValue(k, v, fn, 0)
	}
	return out
}

func walkValue(key string, value any, fn Func, depth int) any {
	if depth > maxDepth {
		// Printing the value here could chase the same cycle; name it instead.
		return fmt.Sprintf("%T(truncated)", value)
	}

	v := fn(key, value)
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case bool:
		return t
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, nested := range t {
			out[k] = walkValue(k, nested, fn, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, nested := range t {
			out[i] = walkValue(key, nested, fn, depth+1)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v
	case reflect.Map:
		// Non-string keys were already rewritten by the hook.
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			out[k] = walkValue(k, iter.Value().Interface(), fn, depth+1)
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = walkValue(key, rv.Index(i).Interface(), fn, depth+1)
		}
		return out
	}

	return jsonSafe(v)
}

// finite keeps regular floats untouched and substitutes text for the values
// JSON has no encoding for.
func finite(f float64) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return f
}

// jsonSafe returns v when encoding/json can represent it and a textual
// fallback otherwise, keeping the serialization path panic- and error-free.
func jsonSafe(v any) any {
	if _, err := json.Marshal(v); err != nil {
		if s, ok := v.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprint(v)
	}
	return v
}
