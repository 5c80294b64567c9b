package boleta

import "testing"

func TestParseDate_KnownFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2025-01-10 08:30:00", "2025-01-10"},
		{"2025-01-10 08:30:00.123456", "2025-01-10"},
		{"2025-01-10 08:30:00-06", "2025-01-10"},
		{"2025-01-10 08:30:00.123456-06", "2025-01-10"},
	}
	for _, tc := range cases {
		got := ParseDate(tc.raw)
		if got.IsAbsent() {
			t.Errorf("ParseDate(%q) unexpectedly absent", tc.raw)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tc.raw, got.String(), tc.want)
		}
	}
}

func TestParseDate_DegradesToAbsent(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a date", "10/01/2025"} {
		if got := ParseDate(raw); !got.IsAbsent() {
			t.Errorf("ParseDate(%q) = %q, want absent", raw, got.String())
		}
	}
}

func TestParseTimestamp_Brackets(t *testing.T) {
	got := ParseTimestamp("2025-01-10 08:30:00.123456")
	if got.String() != "#2025-01-10 08:30:00#" {
		t.Errorf("expected bracketed timestamp, got %q", got.String())
	}
}

func TestParseTimestamp_DegradesToAbsent(t *testing.T) {
	if got := ParseTimestamp("bogus"); !got.IsAbsent() {
		t.Errorf("expected absent, got %q", got.String())
	}
	if got := ParseTimestamp(""); !got.IsAbsent() {
		t.Errorf("expected absent for empty input, got %q", got.String())
	}
}

func TestEarliestOf(t *testing.T) {
	t1 := Present("#2025-01-10 08:00:00#")
	t2 := Present("#2025-01-10 09:00:00#")

	if got := EarliestOf(t1, t2); got.String() != t1.String() {
		t.Errorf("EarliestOf(t1, t2) = %q, want t1", got.String())
	}
	if got := EarliestOf(t2, t1); got.String() != t1.String() {
		t.Errorf("EarliestOf(t2, t1) = %q, want t1", got.String())
	}
	if got := EarliestOf(Absent(), t2); got.String() != t2.String() {
		t.Errorf("expected non-absent operand to win, got %q", got.String())
	}
	if got := EarliestOf(t1, Absent()); got.String() != t1.String() {
		t.Errorf("expected non-absent operand to win, got %q", got.String())
	}
	if got := EarliestOf(Absent(), Absent()); !got.IsAbsent() {
		t.Errorf("expected absent when both operands absent, got %q", got.String())
	}
}

func TestTransliterate(t *testing.T) {
	got := Transliterate("Muñoz Ibáñez José María ÁÉÍÓÚ")
	want := "Munoz Ibanez Jose Maria AEIOU"
	if got != want {
		t.Errorf("Transliterate = %q, want %q", got, want)
	}
}

func TestValue_String(t *testing.T) {
	if got := Absent().String(); got != "#NULL#" {
		t.Errorf("absent value renders %q, want #NULL#", got)
	}
	if got := Present("x").String(); got != "x" {
		t.Errorf("present value renders %q, want x", got)
	}
}

func TestValue_Bracketed(t *testing.T) {
	if got := Present("2025-01-10").Bracketed().String(); got != "#2025-01-10#" {
		t.Errorf("Bracketed = %q", got)
	}
	if got := Present("#2025-01-10#").Bracketed().String(); got != "#2025-01-10#" {
		t.Errorf("already-bracketed value changed: %q", got)
	}
	if got := Absent().Bracketed(); !got.IsAbsent() {
		t.Errorf("absent value should stay absent, got %q", got.String())
	}
}
