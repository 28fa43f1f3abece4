package polynomial

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    Polynomial
		wantErr bool
	}{
		{"commas", "1,0,-4", Polynomial{1, 0, -4}, false},
		{"spaces", "1 0 -4", Polynomial{1, 0, -4}, false},
		{"mixed", " 1, 0 ,-4 ", Polynomial{1, 0, -4}, false},
		{"semicolons", "2;3", Polynomial{2, 3}, false},
		{"scientific", "1e-3,2.5E2", Polynomial{0.001, 250}, false},
		{"single", "5", Polynomial{5}, false},
		{"empty", "", nil, true},
		{"blank", " , ", nil, true},
		{"garbage", "1,two,3", nil, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseEmptyIsErrEmpty(t *testing.T) {
	t.Parallel()
	if _, err := Parse("   "); !errors.Is(err, ErrEmpty) {
		t.Errorf("Parse(blank) error = %v, want ErrEmpty", err)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()
	if got := New(1, 0, -4.5).Format(); got != "1,0,-4.5" {
		t.Errorf("Format = %q, want %q", got, "1,0,-4.5")
	}
}
