// Package normalize converts arbitrary Go values into JSON-representable
// substitutes for the wire format. The default rules are lossy for value kinds
// JSON cannot carry (channels, funcs, binary buffers, weak references) and are
// documented on each branch; callers may swap in their own Func to change any
// of them.
package normalize

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	pkgerrors "github.com/pkg/errors"
)

// Func maps one context field to a JSON-representable value. Implementations
// must be total: every input terminates in a representable value, and the
// function is invoked again on whatever it returns as the serializer walks
// nested structures, so outputs must survive re-normalization unchanged.
type Func func(key string, value any) any

const signatureLimit = 50

// Default is the normalization applied when an emitter is built without
// WithNormalizer. Rules are checked in order; the first match wins:
//
//  1. errors become {message, name, stack}
//  2. fixed-width numeric slices become "<type>(<len>)"
//  3. bytes.Buffer collapses to its type name
//  4. time.Time becomes an RFC 3339 string
//  5. *regexp.Regexp becomes its source text
//  6. set-like maps (struct{} elements) become sorted arrays
//  7. maps with non-string keys become objects with stringified keys
//  8. weak.Pointer values collapse to "weak.Pointer"
//  9. channels collapse to "chan" and are never received from
//  10. byte-view readers collapse to their type name
//  11. funcs become a short signature string
//  12. big.Int/Float/Rat become decimal text
//
// Anything else is returned unchanged and the serializer recurses into it.
func Default(key string, value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case error:
		return errorObject(v)
	case []int8, []int16, []int32, []int64,
		[]uint8, []uint16, []uint32, []uint64,
		[]float32, []float64:
		// Element count, not byte length.
		return fmt.Sprintf("%T(%d)", value, reflect.ValueOf(value).Len())
	case bytes.Buffer, *bytes.Buffer:
		return "bytes.Buffer"
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.UTC().Format(time.RFC3339Nano)
	case *regexp.Regexp:
		if v == nil {
			return nil
		}
		return v.String()
	case time.Duration:
		return v.String()
	case *bytes.Reader, *strings.Reader, *io.SectionReader:
		return strings.TrimPrefix(fmt.Sprintf("%T", value), "*")
	case *big.Int, *big.Float, *big.Rat:
		return bigText(v)
	case complex64:
		return fmt.Sprint(v)
	case complex128:
		return fmt.Sprint(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Elem() == emptyStructType {
			return setElements(rv)
		}
		if rv.Type().Key().Kind() != reflect.String {
			return stringKeyed(rv)
		}
	case reflect.Chan:
		// State is never introspected; receiving could block forever.
		return "chan"
	case reflect.Func:
		return funcSignature(rv)
	case reflect.UnsafePointer:
		return fmt.Sprintf("%T(cannot stringify)", value)
	case reflect.Struct:
		if strings.HasPrefix(rv.Type().String(), "weak.Pointer[") {
			// Weak referents are deliberately not reachable through logs.
			return "weak.Pointer"
		}
	}

	return value
}

var emptyStructType = reflect.TypeOf(struct{}{})

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// errorObject renders an error as {message, name, stack}. The stack is taken
// from the first error in the Unwrap chain that carries one (pkg/errors
// style); errors without a recorded stack get an empty string.
func errorObject(err error) map[string]any {
	return map[string]any{
		"message": err.Error(),
		"name":    fmt.Sprintf("%T", err),
		"stack":   stackText(err),
	}
}

func stackText(err error) string {
	for e := err; e != nil; e = unwrap(e) {
		st, ok := e.(stackTracer)
		if !ok {
			continue
		}
		var b strings.Builder
		for _, frame := range st.StackTrace() {
			fmt.Fprintf(&b, "%+v\n", frame)
		}
		return strings.TrimRight(b.String(), "\n")
	}
	return ""
}

func unwrap(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}

// setElements flattens a map[T]struct{} into its elements. Go randomizes map
// iteration, so elements are ordered by their printed form to keep output
// deterministic.
func setElements(rv reflect.Value) []any {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k.Interface()
	}
	return out
}

// stringKeyed rebuilds a map with non-string keys as a plain object. Distinct
// keys printing identically collapse, last write wins.
func stringKeyed(rv reflect.Value) map[string]any {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out
}

// funcSignature renders a func value as "name(param, ...)". Anonymous funcs
// fall back to the reflected type, and anything longer than the limit is
// truncated with an ellipsis.
func funcSignature(rv reflect.Value) string {
	t := rv.Type()
	params := make([]string, t.NumIn())
	for i := range params {
		if t.IsVariadic() && i == t.NumIn()-1 {
			params[i] = "..." + t.In(i).Elem().String()
			continue
		}
		params[i] = t.In(i).String()
	}

	var name string
	if !rv.IsNil() {
		if fn := runtime.FuncForPC(rv.Pointer()); fn != nil {
			name = fn.Name()
			if i := strings.LastIndexByte(name, '.'); i >= 0 {
				name = name[i+1:]
			}
			name = strings.TrimSuffix(name, "-fm")
		}
	}

	sig := t.String()
	if name != "" {
		sig = name + "(" + strings.Join(params, ", ") + ")"
	}
	return truncate(sig, signatureLimit)
}

func bigText(v any) string {
	s, ok := v.(fmt.Stringer)
	if !ok || reflect.ValueOf(v).IsNil() {
		return fmt.Sprintf("%T(cannot stringify)", v)
	}
	return s.String()
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}
