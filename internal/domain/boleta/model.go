package boleta

import "strconv"

// ResultCode identifies one screening test in the labsis catalogue.
// The set below is closed: any other code observed on an incoming row
// is an unrecognized result and rejects the boleta rather than being
// silently dropped.
type ResultCode int

const (
	CodeTSH      ResultCode = 852
	CodePKU      ResultCode = 854
	CodeIRT      ResultCode = 859
	Code17OH     ResultCode = 883
	CodeJarabeA2 ResultCode = 885
	CodeJarabeA1 ResultCode = 886
	CodeTyr      ResultCode = 888
	CodeHbF      ResultCode = 889
	CodeHbA      ResultCode = 890
	CodeHbS      ResultCode = 891
	CodeHbC      ResultCode = 892
)

// RecognizedCodes lists every code this exporter places into a result
// slot, in the column order of the output file.
var RecognizedCodes = []ResultCode{
	CodeTSH, CodeIRT, CodePKU, Code17OH,
	CodeJarabeA1, CodeJarabeA2, CodeTyr,
	CodeHbF, CodeHbA, CodeHbS, CodeHbC,
}

// aliases are the short human-readable names the preview grid shows
// instead of the raw catalogue ids.
var aliases = map[ResultCode]string{
	CodeTSH: "TSH", CodeIRT: "IRT", CodePKU: "PKU", Code17OH: "17OH",
	CodeJarabeA1: "JarabeA1", CodeJarabeA2: "JarabeA2", CodeTyr: "Tyr",
	CodeHbF: "HbF", CodeHbA: "HbA", CodeHbS: "HbS", CodeHbC: "HbC",
}

// Recognized reports whether the code belongs to the closed set.
func (c ResultCode) Recognized() bool {
	_, ok := aliases[c]
	return ok
}

// Hemoglobin reports whether the code belongs to the hemoglobin panel,
// which arrives through the alpha (letter-coded) instrument pathway.
func (c ResultCode) Hemoglobin() bool {
	return c >= CodeHbF && c <= CodeHbC
}

// Alias returns the grid alias for the code, or its numeric form for
// codes outside the catalogue.
func (c ResultCode) Alias() string {
	if a, ok := aliases[c]; ok {
		return a
	}
	return strconv.Itoa(int(c))
}

// Status is the boleta lifecycle flag the legacy consumer understands.
type Status string

const (
	StatusRejected Status = "R"
	StatusAccepted Status = "A"
)

// RawResultRow is one row of the range query: an order joined to at
// most one result. Nullable columns are pointers; the numeric and
// alpha result pathways each carry their own update timestamp.
type RawResultRow struct {
	OrderID          string
	SampleTakenAt    *string
	FirstName        *string
	LastName         *string
	Sex              *string
	PatientCI        *string
	NumericUpdatedAt *string
	NumericValue     *string
	TestID           *int
	AgeDays          *int
	AgeHours         *int
	BloomCode        *string
	DTICCode         *string
	ReceptionAt      *string
	AlphaValue       *string
	ValidatedBy      *int
	AlphaUpdatedAt   *string
	UpdateNote       *string
}

// Boleta is one consolidated lab order, the unit of output. It exists
// only for the duration of one report generation; the encoder consumes
// it and it is discarded.
type Boleta struct {
	LabCode      Value  // codigoE (codigo_bloom)
	OrderID      string // num_ingreso
	SampleDate   Value  // FechaTomaMx, sentinel-bracketed
	Patient      string // transliterated display name
	AgeDays      int
	Sex          Value
	Expediente   Value // patient identifier (ci_paciente)
	Reception    Value // date-only
	Processing   Value // sentinel timestamp, earliest-wins
	ResultDate   Value // FResultado, sentinel timestamp, earliest-wins
	Rejection    Value // FechaRechazo
	PatientState Value // EstadoPaciente, carried for the legacy layout
	Status       Status
	Update       Value
	ReferredBy   Value // ReferidoPor, carried for the legacy layout
	InternalID   Value // Id (codigo_dtic)
	Results      map[ResultCode]Value
}

// NewBoleta allocates the record shell for an order: every timestamp
// absent, status Rejected with the rejection date seeded from the
// reception date, and every recognized result slot absent. Called once
// per distinct order id, on first encounter; the demographic snapshot
// it captures is permanent for the run.
func NewBoleta(orderID string, sampleDate Value, patient string, sex Value,
	expediente Value, ageDays int, reception Value, labCode Value, internalID Value) *Boleta {

	results := make(map[ResultCode]Value, len(RecognizedCodes))
	for _, c := range RecognizedCodes {
		results[c] = Absent()
	}
	return &Boleta{
		LabCode:    labCode,
		OrderID:    orderID,
		SampleDate: sampleDate.Bracketed(),
		Patient:    patient,
		AgeDays:    ageDays,
		Sex:        sex,
		Expediente: expediente,
		Reception:  reception,
		Rejection:  reception,
		Status:     StatusRejected,
		InternalID: internalID,
		Results:    results,
	}
}
