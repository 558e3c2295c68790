package signature

import (
	"reflect"
	"testing"
)

func TestParseParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []Param
		wantErr int
	}{
		{
			name:  "two_simple",
			input: "int index, String name",
			want:  []Param{{Type: "int", Name: "index"}, {Type: "String", Name: "name"}},
		},
		{
			name:  "generic",
			input: "List<String> items",
			want:  []Param{{Type: "List<String>", Name: "items"}},
		},
		{
			name:  "generic_with_comma_and_line_breaks",
			input: "Map<K, V> m,\n                 int[] arr,\r\n                 String... rest",
			want: []Param{
				{Type: "Map<K, V>", Name: "m"},
				{Type: "int[]", Name: "arr"},
				{Type: "String...", Name: "rest"},
			},
		},
		{
			name:  "nbsp",
			input: "Comparator<? super T>\u00a0c",
			want:  []Param{{Type: "Comparator<? super T>", Name: "c"}},
		},
		{
			name:  "annotated",
			input: "@Nullable Object o",
			want:  []Param{{Type: "@Nullable Object", Name: "o"}},
		},
		{
			name:    "bad_segment_dropped",
			input:   "int index, bogus, String name",
			want:    []Param{{Type: "int", Name: "index"}, {Type: "String", Name: "name"}},
			wantErr: 1,
		},
		{
			name:    "name_not_identifier",
			input:   "int a[]",
			wantErr: 1,
		},
		{
			name:  "empty",
			input: "  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseParams(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if len(errs) != tt.wantErr {
				t.Errorf("got %d errors (%v), want %d", len(errs), errs, tt.wantErr)
			}
		})
	}
}

func TestSplitTypeList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"Comparable<Date>, Serializable", []string{"Comparable<Date>", "Serializable"}},
		{"Serializable, Cloneable, Iterable<E>, Collection<E>, List<E>, RandomAccess",
			[]string{"Serializable", "Cloneable", "Iterable<E>", "Collection<E>", "List<E>", "RandomAccess"}},
		{"Map<K, Map<String, V>>,\n  Runnable", []string{"Map<K, Map<String, V>>", "Runnable"}},
		{" ,, ", nil},
		{"Runnable", []string{"Runnable"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SplitTypeList(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
