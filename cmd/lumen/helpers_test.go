package main

import (
	"reflect"
	"testing"
)

func TestParseContextArgs(t *testing.T) {
	got, err := parseContextArgs([]string{
		"retries=3",
		"ratio=0.5",
		"ok=true",
		"name=web-1",
		`tags=["a","b"]`,
		"empty=null",
		`quoted="3"`,
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := map[string]any{
		"retries": float64(3),
		"ratio":   0.5,
		"ok":      true,
		"name":    "web-1",
		"tags":    []any{"a", "b"},
		"empty":   nil,
		"quoted":  "3",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("context args:\ngot  %#v\nwant %#v", got, want)
	}
}

func TestParseContextArgsEmpty(t *testing.T) {
	got, err := parseContextArgs(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil map, got %#v", got)
	}
}

func TestParseContextArgsRejectsBareWords(t *testing.T) {
	if _, err := parseContextArgs([]string{"retries"}); err == nil {
		t.Fatal("expected error for argument without =")
	}
	if _, err := parseContextArgs([]string{"=3"}); err == nil {
		t.Fatal("expected error for empty key")
	}
}
