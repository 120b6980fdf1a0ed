package conv

import (
	"reflect"
	"testing"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		in     any
		want   int
		wantOK bool
	}{
		{in: 3, want: 3, wantOK: true},
		{in: int64(7), want: 7, wantOK: true},
		{in: 2.9, want: 2, wantOK: true},
		{in: "5", wantOK: false},
		{in: nil, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ToInt(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ToInt(%v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSliceAnyToString(t *testing.T) {
	in := []any{"a", 1, "b", nil}
	if got := SliceAnyToString(in); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("SliceAnyToString() = %v", got)
	}
	if got := SliceAnyToString("not a slice"); got != nil {
		t.Errorf("SliceAnyToString(non-slice) = %v, want nil", got)
	}
	if got := SliceAnyToString(nil); got != nil {
		t.Errorf("SliceAnyToString(nil) = %v, want nil", got)
	}
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"key": "pop:titles", "n": 7, "flag": true}

	if got := ConfigGet(m, "key", ""); got != "pop:titles" {
		t.Errorf("ConfigGet(key) = %q", got)
	}
	if got := ConfigGet(m, "missing", "fallback"); got != "fallback" {
		t.Errorf("ConfigGet(missing) = %q, want fallback", got)
	}
	if got := ConfigGet(m, "n", ""); got != "" {
		t.Errorf("type mismatch should fall back to default, got %q", got)
	}
	if got := ConfigGet(m, "flag", false); got != true {
		t.Errorf("ConfigGet(flag) = %v", got)
	}
}

func TestConfigGetInt(t *testing.T) {
	// YAML 解析数字可能落成 int / int64 / float64 任意一种
	m := map[string]any{"a": 5, "b": int64(6), "c": 7.0, "d": "8"}

	for key, want := range map[string]int{"a": 5, "b": 6, "c": 7} {
		if got := ConfigGetInt(m, key, 0); got != want {
			t.Errorf("ConfigGetInt(%s) = %d, want %d", key, got, want)
		}
	}
	if got := ConfigGetInt(m, "d", 9); got != 9 {
		t.Errorf("string value should fall back to default, got %d", got)
	}
	if got := ConfigGetInt(m, "missing", 3); got != 3 {
		t.Errorf("ConfigGetInt(missing) = %d, want 3", got)
	}
}
