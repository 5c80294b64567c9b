package boleta

import "testing"

// testRow builds a raw row with the fields every scenario needs filled
// in; tests mutate the result for their specific case.
func testRow(orderID string) *RawResultRow {
	return &RawResultRow{
		OrderID:       orderID,
		SampleTakenAt: strPtr("2025-01-09 10:00:00"),
		FirstName:     strPtr("María José"),
		LastName:      strPtr("Muñoz"),
		Sex:           strPtr("F"),
		PatientCI:     strPtr("001-123456-0001A"),
		AgeDays:       intPtr(3),
		BloomCode:     strPtr("B-77"),
		DTICCode:      strPtr("D-42"),
		ReceptionAt:   strPtr("2025-01-10 08:30:00"),
	}
}

func withResult(r *RawResultRow, code ResultCode, numeric string, updatedAt string) *RawResultRow {
	r.TestID = intPtr(int(code))
	r.NumericValue = strPtr(numeric)
	if updatedAt != "" {
		r.NumericUpdatedAt = strPtr(updatedAt)
	}
	return r
}

func TestFold_GroupsRowsByOrder(t *testing.T) {
	r := NewReport()
	r.Fold(withResult(testRow("5001"), CodeTSH, "2.5", "2025-01-11 09:00:00"))
	r.Fold(withResult(testRow("5001"), CodeIRT, "31.0", "2025-01-11 10:00:00"))
	r.Fold(withResult(testRow("5002"), CodeTSH, "1.9", "2025-01-11 11:00:00"))

	if r.Len() != 2 {
		t.Fatalf("expected 2 boletas, got %d", r.Len())
	}

	b := r.Get("5001")
	if b == nil {
		t.Fatal("boleta 5001 missing")
	}
	if b.Results[CodeTSH].String() != "2.5" {
		t.Errorf("TSH = %q, want 2.5", b.Results[CodeTSH].String())
	}
	if b.Results[CodeIRT].String() != "31.0" {
		t.Errorf("IRT = %q, want 31.0", b.Results[CodeIRT].String())
	}
	if b.Patient != "Maria Jose Munoz" {
		t.Errorf("patient name = %q, want transliterated full name", b.Patient)
	}
}

func TestFold_SkipsSentinelOrder(t *testing.T) {
	r := NewReport()
	r.Fold(withResult(testRow("1"), CodeTSH, "2.5", "2025-01-11 09:00:00"))
	if r.Len() != 0 {
		t.Errorf("sentinel order must not materialize, got %d boletas", r.Len())
	}
}

func TestFold_FirstSeenOrderPreserved(t *testing.T) {
	r := NewReport()
	for _, id := range []string{"30", "10", "20"} {
		r.Fold(testRow(id))
	}
	got := r.Boletas()
	want := []string{"30", "10", "20"}
	for i, b := range got {
		if b.OrderID != want[i] {
			t.Errorf("position %d: got order %s, want %s", i, b.OrderID, want[i])
		}
	}
}

func TestFold_EarliestTimestampWins(t *testing.T) {
	early := "2025-01-11 08:00:00"
	late := "2025-01-11 15:00:00"

	for name, order := range map[string][2]string{
		"early first": {early, late},
		"late first":  {late, early},
	} {
		r := NewReport()
		r.Fold(withResult(testRow("5001"), CodeTSH, "2.5", order[0]))
		r.Fold(withResult(testRow("5001"), CodeIRT, "31.0", order[1]))

		b := r.Get("5001")
		want := "#2025-01-11 08:00:00#"
		if b.Processing.String() != want {
			t.Errorf("%s: Procesamiento = %q, want %q", name, b.Processing.String(), want)
		}
		if b.ResultDate.String() != want {
			t.Errorf("%s: FResultado = %q, want %q", name, b.ResultDate.String(), want)
		}
	}
}

func TestFold_AlphaTimestampIsFallbackOnly(t *testing.T) {
	r := NewReport()
	row := testRow("5001")
	row.TestID = intPtr(int(CodeHbF))
	row.AlphaValue = strPtr("F")
	row.ValidatedBy = intPtr(7)
	row.NumericUpdatedAt = strPtr("2025-01-11 09:00:00")
	row.AlphaUpdatedAt = strPtr("2025-01-11 07:00:00")
	r.Fold(row)

	b := r.Get("5001")
	if b.Processing.String() != "#2025-01-11 09:00:00#" {
		t.Errorf("numeric pathway timestamp must win when set, got %q", b.Processing.String())
	}
}

func TestFold_StatusAdvancesAndStays(t *testing.T) {
	r := NewReport()
	r.Fold(testRow("5001")) // no result yet

	b := r.Get("5001")
	if b.Status != StatusRejected {
		t.Fatalf("new boleta must start rejected, got %s", b.Status)
	}
	if b.Rejection.String() != "2025-01-10" {
		t.Errorf("rejection date seeded from reception, got %q", b.Rejection.String())
	}

	r.Fold(withResult(testRow("5001"), CodeTSH, "2.5", "2025-01-11 09:00:00"))
	if b.Status != StatusAccepted {
		t.Fatalf("recognized result must accept the boleta, got %s", b.Status)
	}
	if !b.Rejection.IsAbsent() {
		t.Errorf("acceptance must clear the rejection date, got %q", b.Rejection.String())
	}

	// Another result-less row for the same order does not demote it.
	r.Fold(testRow("5001"))
	if b.Status != StatusAccepted {
		t.Errorf("result-less row must not demote an accepted boleta, got %s", b.Status)
	}
}

func TestFold_UnrecognizedCodeRejects(t *testing.T) {
	r := NewReport()
	r.Fold(withResult(testRow("5001"), CodeTSH, "2.5", "2025-01-11 09:00:00"))
	r.Fold(withResult(testRow("5001"), ResultCode(999), "5.0", "2025-01-11 10:00:00"))

	b := r.Get("5001")
	if b.Status != StatusRejected {
		t.Fatalf("unrecognized code must reject, got %s", b.Status)
	}
	if b.Rejection.String() != "#2025-01-10#" {
		t.Errorf("rejection from unrecognized code is bracketed, got %q", b.Rejection.String())
	}
}

func TestFold_EmptyResolvedValueIgnored(t *testing.T) {
	r := NewReport()
	r.Fold(withResult(testRow("5001"), CodeTSH, "   ", "2025-01-11 09:00:00"))

	b := r.Get("5001")
	if b.Status != StatusRejected {
		t.Errorf("blank result value must not accept the boleta, got %s", b.Status)
	}
	if !b.Processing.IsAbsent() {
		t.Errorf("blank result value must not set timestamps, got %q", b.Processing.String())
	}
}

func TestFold_UpdateFollowsLastRow(t *testing.T) {
	r := NewReport()
	row1 := testRow("5001")
	row1.UpdateNote = strPtr("repetir")
	r.Fold(row1)

	b := r.Get("5001")
	if b.Update.String() != "repetir" {
		t.Fatalf("Update = %q, want repetir", b.Update.String())
	}

	r.Fold(testRow("5001")) // nil note overwrites
	if !b.Update.IsAbsent() {
		t.Errorf("nil update note must overwrite, got %q", b.Update.String())
	}
}

func TestFold_DemographicSnapshotIsFirstRow(t *testing.T) {
	r := NewReport()
	r.Fold(testRow("5001"))

	row2 := testRow("5001")
	row2.FirstName = strPtr("Otro")
	row2.LastName = strPtr("Nombre")
	r.Fold(row2)

	if got := r.Get("5001").Patient; got != "Maria Jose Munoz" {
		t.Errorf("demographics must come from the first row seen, got %q", got)
	}
}

func TestFold_AgeFallsBackToHours(t *testing.T) {
	r := NewReport()
	row := testRow("5001")
	row.AgeDays = intPtr(0)
	row.AgeHours = intPtr(49)
	r.Fold(row)

	if got := r.Get("5001").AgeDays; got != 2 {
		t.Errorf("49 hours should round down to 2 days, got %d", got)
	}
}

func TestHemoglobinCanonicalization(t *testing.T) {
	r := NewReport()
	row := testRow("5001")
	row.TestID = intPtr(int(CodeHbA)) // arrives keyed under the wrong slot
	row.AlphaValue = strPtr(" F ")
	row.ValidatedBy = intPtr(9)
	row.AlphaUpdatedAt = strPtr("2025-01-11 09:00:00")
	r.Fold(row)

	b := r.Get("5001")
	if b.Results[CodeHbF].String() != "F" {
		t.Errorf("letter F must land in the HbF slot, got %q", b.Results[CodeHbF].String())
	}
	if !b.Results[CodeHbA].IsAbsent() {
		t.Errorf("the slot the row arrived under must be cleared, got %q", b.Results[CodeHbA].String())
	}

	// Re-running the canonicalization changes nothing.
	b.canonicalizeHemoglobin()
	if b.Results[CodeHbF].String() != "F" || !b.Results[CodeHbA].IsAbsent() {
		t.Error("canonicalization is not idempotent")
	}
}

func TestSweep_CorrectsContradictoryRecords(t *testing.T) {
	r := NewReport()
	r.Fold(withResult(testRow("5001"), CodeTSH, "2.5", "2025-01-11 09:00:00"))

	// Force the contradictory shape Fold cannot produce on its own.
	b := r.Get("5001")
	b.Status = StatusRejected
	b.Rejection = Present("2025-01-10")

	anomalies := r.Sweep()
	if len(anomalies) != 1 || anomalies[0] != "5001" {
		t.Fatalf("expected anomaly [5001], got %v", anomalies)
	}
	if b.Status != StatusAccepted {
		t.Errorf("swept boleta must be accepted, got %s", b.Status)
	}
	if !b.Rejection.IsAbsent() {
		t.Errorf("swept boleta must have its rejection cleared, got %q", b.Rejection.String())
	}
	if len(r.Anomalies) != 1 {
		t.Errorf("Anomalies not recorded on the report: %v", r.Anomalies)
	}
}

func TestSweep_LeavesCleanRejectionsAlone(t *testing.T) {
	r := NewReport()
	r.Fold(testRow("5001")) // rejected, no timestamps

	if anomalies := r.Sweep(); len(anomalies) != 0 {
		t.Fatalf("expected no anomalies, got %v", anomalies)
	}
	if got := r.Get("5001").Status; got != StatusRejected {
		t.Errorf("clean rejection must survive the sweep, got %s", got)
	}
}
