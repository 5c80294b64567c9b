package boleta

import "strings"

// sentinelOrderID marks placeholder orders in the labsis database that
// must never materialize as boletas.
const sentinelOrderID = "1"

// Report is the consolidated mapping for one generation run: one
// Boleta per distinct order id, in first-seen order. A Report is
// always freshly allocated per run; nothing survives between runs.
type Report struct {
	boletas map[string]*Boleta
	order   []string

	// Anomalies holds the order ids corrected by the post-scan sweep,
	// for operator notification. Populated by Sweep.
	Anomalies []string
}

// NewReport returns an empty report ready to fold rows.
func NewReport() *Report {
	return &Report{boletas: make(map[string]*Boleta)}
}

// Len returns the number of consolidated boletas.
func (r *Report) Len() int { return len(r.order) }

// Get returns the boleta for an order id, or nil.
func (r *Report) Get(orderID string) *Boleta { return r.boletas[orderID] }

// Boletas returns the consolidated records in first-seen order.
func (r *Report) Boletas() []*Boleta {
	out := make([]*Boleta, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.boletas[id])
	}
	return out
}

// Accepted counts the boletas currently in the accepted state.
func (r *Report) Accepted() int {
	n := 0
	for _, b := range r.boletas {
		if b.Status == StatusAccepted {
			n++
		}
	}
	return n
}

// Fold merges one raw row into the report. Rows arrive ordered by
// reception timestamp ascending; that ordering only matters for which
// row seeds a boleta's demographic snapshot — result folding itself is
// order-independent under the earliest-wins and status-only-advances
// rules.
func (r *Report) Fold(row *RawResultRow) {
	if row.OrderID == sentinelOrderID {
		return
	}

	sampleDate := ParseDate(strOrEmpty(row.SampleTakenAt))
	patient := Transliterate(strings.TrimSpace(strOrEmpty(row.FirstName)) + " " + strings.TrimSpace(strOrEmpty(row.LastName)))
	reception := ParseDate(strOrEmpty(row.ReceptionAt))

	ageDays := intOrZero(row.AgeDays)
	if ageHours := intOrZero(row.AgeHours); ageDays == 0 && ageHours > 0 {
		ageDays = ageHours / 24
	}

	b, ok := r.boletas[row.OrderID]
	if !ok {
		b = NewBoleta(row.OrderID, sampleDate, patient,
			valueOrAbsent(row.Sex), valueOrAbsent(row.PatientCI), ageDays,
			reception, valueOrAbsent(row.BloomCode), valueOrAbsent(row.DTICCode))
		r.boletas[row.OrderID] = b
		r.order = append(r.order, row.OrderID)
	}

	// The update annotation follows the row set, not the result set:
	// every row for an order overwrites it, nulls included.
	b.Update = valueOrAbsent(row.UpdateNote)

	if row.TestID == nil {
		return
	}
	code := ResultCode(*row.TestID)

	if !code.Recognized() {
		b.Status = StatusRejected
		b.Rejection = reception.Bracketed()
		return
	}

	v := Resolve(code, row.NumericValue, row.AlphaValue, row.ValidatedBy)
	if v.IsAbsent() || strings.TrimSpace(v.String()) == "" {
		return
	}
	b.Results[code] = v

	// The numeric pathway's update timestamp wins when both are set;
	// the alpha pathway's is only a fallback.
	updated := ParseTimestamp(strOrEmpty(row.NumericUpdatedAt))
	if updated.IsAbsent() {
		updated = ParseTimestamp(strOrEmpty(row.AlphaUpdatedAt))
	}
	if !updated.IsAbsent() {
		b.Processing = EarliestOf(b.Processing, updated)
		b.ResultDate = EarliestOf(b.ResultDate, updated)
	}

	b.Status = StatusAccepted
	b.Rejection = Absent()

	b.canonicalizeHemoglobin()
}

// hbCanonical maps each expected hemoglobin letter to its canonical
// output slot, independent of which code the raw join keyed it under.
var hbCanonical = map[string]ResultCode{
	"F": CodeHbF, "A": CodeHbA, "S": CodeHbS, "C": CodeHbC,
}

var hbSlots = []ResultCode{CodeHbF, CodeHbA, CodeHbS, CodeHbC}

// canonicalizeHemoglobin re-derives the four hemoglobin slots from
// scratch: every slot is reset, then each letter found among the
// previous slot values is placed into its canonical slot. Idempotent.
func (b *Boleta) canonicalizeHemoglobin() {
	previous := make([]Value, 0, len(hbSlots))
	for _, slot := range hbSlots {
		previous = append(previous, b.Results[slot])
		b.Results[slot] = Absent()
	}
	for _, v := range previous {
		if v.IsAbsent() {
			continue
		}
		letter := strings.TrimSpace(v.String())
		if slot, ok := hbCanonical[letter]; ok {
			b.Results[slot] = Present(letter)
		}
	}
}

// Sweep is the post-scan anomaly pass: a boleta still Rejected with
// both the processing and result timestamps set is structurally
// unreachable through Fold and indicates duplicate or malformed order
// data upstream. Such records are forced to Accepted, their rejection
// date cleared, and their order ids collected for the operator.
func (r *Report) Sweep() []string {
	var anomalies []string
	for _, id := range r.order {
		b := r.boletas[id]
		if b.Status == StatusRejected && !b.Processing.IsAbsent() && !b.ResultDate.IsAbsent() {
			b.Status = StatusAccepted
			b.Rejection = Absent()
			anomalies = append(anomalies, id)
		}
	}
	r.Anomalies = anomalies
	return anomalies
}
