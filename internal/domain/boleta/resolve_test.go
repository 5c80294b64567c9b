package boleta

import "testing"

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestResolve_NumericPathway(t *testing.T) {
	v := Resolve(CodeTSH, strPtr("7.25"), nil, nil)
	if v.IsAbsent() || v.String() != "7.25" {
		t.Errorf("expected numeric value 7.25, got %q", v.String())
	}
}

func TestResolve_HemoglobinValidatedTakesAlpha(t *testing.T) {
	v := Resolve(CodeHbF, strPtr("1.0"), strPtr("F"), intPtr(42))
	if v.String() != "F" {
		t.Errorf("expected alpha value F for validated hemoglobin, got %q", v.String())
	}
}

func TestResolve_HemoglobinUnvalidatedTakesNumeric(t *testing.T) {
	// A zero or missing validator id means the alpha reading was never
	// signed off, so the numeric pathway stands.
	v := Resolve(CodeHbF, strPtr("1.0"), strPtr("F"), intPtr(0))
	if v.String() != "1.0" {
		t.Errorf("expected numeric value for zero validator, got %q", v.String())
	}

	v = Resolve(CodeHbF, strPtr("1.0"), strPtr("F"), nil)
	if v.String() != "1.0" {
		t.Errorf("expected numeric value for nil validator, got %q", v.String())
	}
}

func TestResolve_NonHemoglobinIgnoresAlpha(t *testing.T) {
	v := Resolve(CodeTSH, strPtr("3.1"), strPtr("F"), intPtr(42))
	if v.String() != "3.1" {
		t.Errorf("non-hemoglobin code must stay on the numeric pathway, got %q", v.String())
	}
}

func TestResolve_AbsentWhenNothingSet(t *testing.T) {
	if v := Resolve(CodeTSH, nil, nil, nil); !v.IsAbsent() {
		t.Errorf("expected absent, got %q", v.String())
	}
}
