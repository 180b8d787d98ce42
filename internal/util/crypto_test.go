package util

import (
	"strings"
	"testing"
)

func TestGenerateNChar(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"Generate 5 characters", 5, false},
		{"Generate 10 characters", 10, false},
		{"Generate negative characters", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateNChar(tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateNChar() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(got) != tt.n {
				t.Errorf("GenerateNChar() got = %v, want length %v", got, tt.n)
			}
		})
	}
}

func TestGenerateExperimentNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		got, err := GenerateExperimentNumber()
		if err != nil {
			t.Fatalf("GenerateExperimentNumber() error = %v", err)
		}
		if !strings.HasPrefix(got, "EXP-") || len(got) != 12 {
			t.Fatalf("unexpected experiment number %q", got)
		}
		if strings.Trim(got[4:], experimentNumberAlphabet) != "" {
			t.Fatalf("experiment number %q uses characters outside the alphabet", got)
		}
		if seen[got] {
			t.Fatalf("duplicate experiment number %q", got)
		}
		seen[got] = true
	}
}
