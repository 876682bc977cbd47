package domain

import (
	"reflect"
	"testing"
)

func TestNormalizeTagNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "simple list",
			raw:  "go,web,sqlite",
			want: []string{"go", "web", "sqlite"},
		},
		{
			name: "whitespace trimmed and lowercased",
			raw:  " Django , python , PYTHON ",
			want: []string{"django", "python"},
		},
		{
			name: "duplicates collapse to first occurrence",
			raw:  "django, python, python",
			want: []string{"django", "python"},
		},
		{
			name: "empty segments discarded",
			raw:  ",,django,, ,python,",
			want: []string{"django", "python"},
		},
		{
			name: "empty input",
			raw:  "",
			want: []string{},
		},
		{
			name: "only separators",
			raw:  ", , ,",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTagNames(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTagNames(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeTagNames_Idempotent(t *testing.T) {
	once := NormalizeTagNames("Django, python, PYTHON")

	// Normalizing the already-normalized output must not change it.
	twice := NormalizeTagNames(joinComma(once))
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalization not idempotent: %v != %v", once, twice)
	}
}

func joinComma(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ","
		}
		out += n
	}
	return out
}
