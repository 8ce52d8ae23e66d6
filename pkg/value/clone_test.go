package value_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/value"
)

func TestCloneIsolation(t *testing.T) {
	original := map[string]any{
		"name": "Alice",
		"address": map[string]any{
			"city": "Dublin",
		},
		"tags": []any{"a", "b"},
	}

	cloned, err := value.Clone(original)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if diff := cmp.Diff(original, cloned); diff != "" {
		t.Fatalf("clone differs from original (-want +got):\n%s", diff)
	}

	// Mutating the clone must leave the original untouched at every depth.
	m := cloned.(map[string]any)
	m["name"] = "Bob"
	m["address"].(map[string]any)["city"] = "Cork"
	m["tags"].([]any)[0] = "z"

	want := map[string]any{
		"name":    "Alice",
		"address": map[string]any{"city": "Dublin"},
		"tags":    []any{"a", "b"},
	}
	if diff := cmp.Diff(want, original); diff != "" {
		t.Fatalf("original mutated through clone (-want +got):\n%s", diff)
	}
}

func TestCloneNormalizesNumbers(t *testing.T) {
	cloned, err := value.Clone(map[string]any{"n": 42, "f": float32(1.5)})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	want := map[string]any{"n": float64(42), "f": float64(1.5)}
	if diff := cmp.Diff(want, cloned); diff != "" {
		t.Fatalf("numeric normalization mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneStructThroughRoundTrip(t *testing.T) {
	type point struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	cloned, err := value.Clone(point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	want := map[string]any{"x": float64(1), "y": float64(2)}
	if diff := cmp.Diff(want, cloned); diff != "" {
		t.Fatalf("struct clone mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneRejectsUncloneable(t *testing.T) {
	if _, err := value.Clone(map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatal("expected an error cloning a channel")
	}
}

func TestCloneRecords(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  []any
	}{
		{
			name:  "sequence of objects",
			input: []any{map[string]any{"a": float64(1)}, map[string]any{"a": float64(2)}},
			want:  []any{map[string]any{"a": float64(1)}, map[string]any{"a": float64(2)}},
		},
		{name: "nil", input: nil, want: []any{}},
		{name: "string", input: "nope", want: []any{}},
		{name: "number", input: 42, want: []any{}},
		{name: "bare object", input: map[string]any{"a": 1}, want: []any{}},
		{
			name:  "typed slice coerced",
			input: []map[string]any{{"a": 1}},
			want:  []any{map[string]any{"a": float64(1)}},
		},
		{
			name:  "uncloneable entries yield empty",
			input: []any{make(chan int)},
			want:  []any{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := value.CloneRecords(tc.input)
			if got == nil {
				t.Fatal("CloneRecords returned nil, want empty slice")
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("CloneRecords mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCloneRecordsIsolation(t *testing.T) {
	source := []any{map[string]any{"a": float64(1)}}
	got := value.CloneRecords(source)
	got[0].(map[string]any)["a"] = float64(99)
	if source[0].(map[string]any)["a"] != float64(1) {
		t.Fatal("CloneRecords shared structure with its input")
	}
}
