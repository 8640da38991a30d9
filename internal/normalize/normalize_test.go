package normalize_test

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
	"weak"

	pkgerrors "github.com/pkg/errors"

	"lumen/internal/normalize"
)

func sampleHandler(id int, name string) error { return nil }

func wideHandler(a, b, c, d, e, f, g string) {}

func TestNormalizeError(t *testing.T) {
	err := pkgerrors.New("boom")

	first := normalize.Default("err", err)
	second := normalize.Default("err", err)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalizing the same error twice diverged: %#v vs %#v", first, second)
	}

	obj, ok := first.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", first)
	}
	if obj["message"] != "boom" {
		t.Fatalf("message: got %v", obj["message"])
	}
	if obj["name"] != "*errors.fundamental" {
		t.Fatalf("name: got %v", obj["name"])
	}
	stack, _ := obj["stack"].(string)
	if !strings.Contains(stack, "normalize_test") {
		t.Fatalf("expected stack to mention this test file, got %q", stack)
	}
}

func TestNormalizeErrorWithoutStack(t *testing.T) {
	obj, ok := normalize.Default("err", errors.New("plain")).(map[string]any)
	if !ok {
		t.Fatal("expected object")
	}
	if obj["stack"] != "" {
		t.Fatalf("stdlib errors carry no stack, got %q", obj["stack"])
	}
}

func TestNormalizeWrappedStack(t *testing.T) {
	err := fmt.Errorf("outer: %w", pkgerrors.New("inner"))
	obj := normalize.Default("err", err).(map[string]any)
	if obj["stack"] == "" {
		t.Fatal("expected stack recovered from wrapped cause")
	}
}

func TestNormalizeFixedWidthSlices(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{[]uint16{1, 2, 3, 4}, "[]uint16(4)"},
		{[]uint16{9, 9, 9, 9}, "[]uint16(4)"},
		{[]int8{-1}, "[]int8(1)"},
		{[]int64{}, "[]int64(0)"},
		{[]byte("abc"), "[]uint8(3)"},
		{[]float64{math.NaN(), 0}, "[]float64(2)"},
	}
	for _, tc := range cases {
		if got := normalize.Default("k", tc.in); got != tc.want {
			t.Fatalf("normalize %T: got %v want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeBuffersAndReaders(t *testing.T) {
	if got := normalize.Default("k", &bytes.Buffer{}); got != "bytes.Buffer" {
		t.Fatalf("buffer pointer: got %v", got)
	}
	if got := normalize.Default("k", bytes.Buffer{}); got != "bytes.Buffer" {
		t.Fatalf("buffer value: got %v", got)
	}
	if got := normalize.Default("k", bytes.NewReader([]byte("x"))); got != "bytes.Reader" {
		t.Fatalf("bytes reader: got %v", got)
	}
	if got := normalize.Default("k", strings.NewReader("x")); got != "strings.Reader" {
		t.Fatalf("strings reader: got %v", got)
	}
}

func TestNormalizeTime(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if got := normalize.Default("k", ts); got != "2026-03-14T09:26:53Z" {
		t.Fatalf("time: got %v", got)
	}
}

func TestNormalizeRegexp(t *testing.T) {
	if got := normalize.Default("k", regexp.MustCompile(`ab+c`)); got != "ab+c" {
		t.Fatalf("regexp: got %v", got)
	}
}

func TestNormalizeSet(t *testing.T) {
	set := map[string]struct{}{"beta": {}, "alpha": {}, "gamma": {}}
	got := normalize.Default("k", set)
	want := []any{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("set: got %#v want %#v", got, want)
	}
}

func TestNormalizeNonStringKeyMap(t *testing.T) {
	got := normalize.Default("k", map[int]string{1: "one", 2: "two"})
	want := map[string]any{"1": "one", "2": "two"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("int-key map: got %#v want %#v", got, want)
	}
}

func TestNormalizeStringKeyMapPassesThrough(t *testing.T) {
	in := map[string]any{"a": 1}
	got := normalize.Default("k", in)
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("string-key map should pass through, got %#v", got)
	}
}

func TestNormalizeWeakPointer(t *testing.T) {
	v := 42
	if got := normalize.Default("k", weak.Make(&v)); got != "weak.Pointer" {
		t.Fatalf("weak pointer: got %v", got)
	}
}

func TestNormalizeChannel(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 1
	if got := normalize.Default("k", ch); got != "chan" {
		t.Fatalf("channel: got %v", got)
	}
	select {
	case <-ch:
	default:
		t.Fatal("normalizer must not receive from the channel")
	}
}

func TestNormalizeFuncs(t *testing.T) {
	got, ok := normalize.Default("k", sampleHandler).(string)
	if !ok || got != "sampleHandler(int, string)" {
		t.Fatalf("named func: got %v", got)
	}

	anon, ok := normalize.Default("k", func(s string) {}).(string)
	if !ok || !strings.HasSuffix(anon, "(string)") {
		t.Fatalf("anonymous func: got %v", anon)
	}

	wide, ok := normalize.Default("k", wideHandler).(string)
	if !ok {
		t.Fatal("expected string for wide func")
	}
	if !strings.HasSuffix(wide, "…") {
		t.Fatalf("expected truncated signature, got %q", wide)
	}
	if n := utf8.RuneCountInString(wide); n != 51 {
		t.Fatalf("truncated signature length: got %d want 51", n)
	}
}

func TestNormalizeBigValues(t *testing.T) {
	n := new(big.Int)
	n.SetString("123456789012345678901234567890", 10)
	if got := normalize.Default("k", n); got != "123456789012345678901234567890" {
		t.Fatalf("big.Int: got %v", got)
	}
	if got := normalize.Default("k", big.NewRat(1, 3)); got != "1/3" {
		t.Fatalf("big.Rat: got %v", got)
	}
}

func TestNormalizePassThrough(t *testing.T) {
	if got := normalize.Default("k", nil); got != nil {
		t.Fatalf("expected nil unchanged, got %#v", got)
	}
	for _, v := range []any{"text", 3, 2.5, true, []any{1, "two"}} {
		if got := normalize.Default("k", v); !reflect.DeepEqual(got, v) {
			t.Fatalf("expected %#v unchanged, got %#v", v, got)
		}
	}
}

type noisy struct {
	Emit func()
}

func (noisy) String() string { return "noisy" }

func TestWalkProducesJSONSafeTree(t *testing.T) {
	ctx := map[string]any{
		"when":    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		"ratio":   math.NaN(),
		"nested":  map[string]any{"payload": []byte{1, 2, 3}},
		"tags":    []any{regexp.MustCompile(`x`), 7},
		"stringy": noisy{},
	}

	got := normalize.Walk(ctx, normalize.Default)

	if got["when"] != "2026-01-02T03:04:05Z" {
		t.Fatalf("when: got %v", got["when"])
	}
	if got["ratio"] != "NaN" {
		t.Fatalf("ratio: got %v", got["ratio"])
	}
	nested := got["nested"].(map[string]any)
	if nested["payload"] != "[]uint8(3)" {
		t.Fatalf("nested payload: got %v", nested["payload"])
	}
	tags := got["tags"].([]any)
	if tags[0] != "x" || tags[1] != 7 {
		t.Fatalf("tags: got %#v", tags)
	}
	if got["stringy"] != "noisy" {
		t.Fatalf("stringer fallback: got %v", got["stringy"])
	}
}

func TestWalkDoesNotMutateInput(t *testing.T) {
	inner := map[string]any{"buf": &bytes.Buffer{}}
	ctx := map[string]any{"inner": inner}
	normalize.Walk(ctx, normalize.Default)
	if _, ok := inner["buf"].(*bytes.Buffer); !ok {
		t.Fatal("walk mutated the caller's map")
	}
}

func TestWalkTerminatesOnCycles(t *testing.T) {
	loop := map[string]any{}
	loop["self"] = loop

	got := normalize.Walk(map[string]any{"loop": loop}, normalize.Default)

	cur := got
	depth := 0
	for {
		v, ok := cur["loop"]
		if !ok {
			v = cur["self"]
		}
		next, ok := v.(map[string]any)
		if !ok {
			s, isString := v.(string)
			if !isString || !strings.Contains(s, "truncated") {
				t.Fatalf("expected truncation placeholder, got %#v", v)
			}
			return
		}
		cur = next
		depth++
		if depth > 200 {
			t.Fatal("cycle was not cut off")
		}
	}
}

func TestWalkInvokesHookPerField(t *testing.T) {
	var keys []string
	fn := func(key string, v any) any {
		keys = append(keys, key)
		return normalize.Default(key, v)
	}
	normalize.Walk(map[string]any{
		"a": map[string]any{"b": 1},
		"c": 2,
	}, fn)

	counts := map[string]int{}
	for _, k := range keys {
		counts[k]++
	}
	if counts["a"] != 1 || counts["b"] != 1 || counts["c"] != 1 {
		t.Fatalf("hook invocations: got %v", counts)
	}
}
