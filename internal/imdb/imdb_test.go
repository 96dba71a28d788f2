package imdb

import (
	"errors"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare id unchanged",
			input: "tt1234567",
			want:  "tt1234567",
		},
		{
			name:  "full imdb url",
			input: "https://www.imdb.com/title/tt0133093/",
			want:  "tt0133093",
		},
		{
			name:  "url with query string",
			input: "https://www.imdb.com/title/tt0111161/?ref_=hm_top_tt",
			want:  "tt0111161",
		},
		{
			name:  "id embedded in surrounding text",
			input: "check out tt7654321 sometime",
			want:  "tt7654321",
		},
		{
			name:  "ten digit id",
			input: "tt1234567890",
			want:  "tt1234567890",
		},
		{
			name:  "first match wins with multiple ids",
			input: "tt0000001 and tt0000002",
			want:  "tt0000001",
		},
		{
			name:    "no id at all",
			input:   "not a valid string",
			wantErr: true,
		},
		{
			name:    "too few digits",
			input:   "tt123456",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Extract(%q) = %q, want error", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidIdentifier) {
					t.Errorf("Extract(%q) error = %v, want ErrInvalidIdentifier", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Extract(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractLongerDigitRun(t *testing.T) {
	// An 11-digit run still contains a valid 10-digit prefix; the extractor
	// takes the first matching substring rather than rejecting the input.
	got, err := Extract("tt12345678901")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "tt1234567890" {
		t.Errorf("Extract = %q, want %q", got, "tt1234567890")
	}
}
