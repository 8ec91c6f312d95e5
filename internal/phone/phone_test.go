package phone

import (
	"errors"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mobile", "01012345678", "010-1234-5678"},
		{"mobile with spaces", "010 1234 5678", "010-1234-5678"},
		{"mobile already formatted", "010-1234-5678", "010-1234-5678"},
		{"old mobile 10 digits", "0111234567", "011-123-4567"},
		{"seoul 10 digits", "0212345678", "02-1234-5678"},
		{"seoul 9 digits", "021234567", "02-123-4567"},
		{"area code", "0311234567", "031-123-4567"},
		{"relay number", "05051234567", "0505-123-4567"},
		{"representative number", "15881234", "1588-1234"},
		{"short input kept as typed", "01", "01"},
		{"short input with junk kept as typed", "0-", "0-"},
		{"empty", "", ""},
		{"partial mobile", "0101", "0101"},
		{"unknown prefix returns digits", "9123-45678", "912345678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatIdempotent(t *testing.T) {
	inputs := []string{
		"01012345678", "010-1234-5678", "0212345678", "021234567",
		"05051234567", "15881234", "123456789", "010", "01", "abc",
		"+82 10 1234 5678", "0311234567",
	}
	for _, in := range inputs {
		once := Format(in)
		twice := Format(once)
		if once != twice {
			t.Errorf("Format not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

// Every 9-11 digit domestic number (leading 0 or 1) splits into exactly
// three non-empty groups.
func TestValidateGroupsDomesticNumbers(t *testing.T) {
	const pool = "0123456789"
	for length := MinDigits; length <= MaxDigits; length++ {
		for _, lead := range []string{"02", "010", "031", "0505", "1588", "0"} {
			for shift := 0; shift < 10; shift++ {
				var b strings.Builder
				b.WriteString(lead)
				for i := 0; b.Len() < length; i++ {
					b.WriteByte(pool[(i+shift)%len(pool)])
				}
				in := b.String()
				got, err := Validate(in)
				if err != nil {
					t.Fatalf("Validate(%q) unexpected error: %v", in, err)
				}
				if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") || strings.Contains(got, "--") {
					t.Errorf("Validate(%q) = %q has a stray hyphen", in, got)
				}
				if parts := strings.Split(got, "-"); len(parts) != 3 {
					t.Errorf("Validate(%q) = %q, want 3 groups", in, got)
				}
			}
		}
	}
}

func TestValidateRejectsLength(t *testing.T) {
	for _, in := range []string{"", "0101234", "01012345", "010-12-34", "010123456789", "0101234567890"} {
		got, err := Validate(in)
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("Validate(%q) = %q, %v; want ErrInvalid", in, got, err)
		}
		if Valid(in) {
			t.Errorf("Valid(%q) = true", in)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	got, err := Validate("010.1234.5678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "010-1234-5678" {
		t.Fatalf("got %q", got)
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("(010) 1234-5678 "); got != "01012345678" {
		t.Fatalf("Digits = %q", got)
	}
}
