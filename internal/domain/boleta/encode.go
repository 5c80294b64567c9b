package boleta

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// OutputColumns is the fixed column order of the export file. The
// downstream consumer reads positionally; never reorder.
var OutputColumns = []string{
	"codigoE", "Boleta", "FechaTomaMx", "Paciente", "Edad", "Sexo", "Expediente",
	"Recepcion", "Procesamiento", "FResultado", "Resultado", "FechaRechazo",
	"EstadoPaciente", "StdoBoleta", "Update", "ReferidoPor", "Id",
	"ResultadoIRT", "ResultadoPKU", "Resultado17OH",
	"ResultadoJarabeA1", "ResultadoJarabeA2", "ResultadoTyr",
	"ResultHbF", "ResultHbA", "ResultHbS", "ResultHbC",
}

// resultColumns maps each result column name to its catalogue code.
var resultColumns = map[string]ResultCode{
	"Resultado":         CodeTSH,
	"ResultadoIRT":      CodeIRT,
	"ResultadoPKU":      CodePKU,
	"Resultado17OH":     Code17OH,
	"ResultadoJarabeA1": CodeJarabeA1,
	"ResultadoJarabeA2": CodeJarabeA2,
	"ResultadoTyr":      CodeTyr,
	"ResultHbF":         CodeHbF,
	"ResultHbA":         CodeHbA,
	"ResultHbS":         CodeHbS,
	"ResultHbC":         CodeHbC,
}

// identityColumns are always double-quoted regardless of content.
var identityColumns = map[string]bool{
	"codigoE": true, "Paciente": true, "Boleta": true, "Expediente": true,
	"Edad": true, "Sexo": true, "Id": true, "StdoBoleta": true,
}

// columnValue returns the display string for one output column.
func (b *Boleta) columnValue(col string) string {
	if code, ok := resultColumns[col]; ok {
		return b.Results[code].String()
	}
	switch col {
	case "codigoE":
		return b.LabCode.String()
	case "Boleta":
		return b.OrderID
	case "FechaTomaMx":
		return b.SampleDate.String()
	case "Paciente":
		return b.Patient
	case "Edad":
		return strconv.Itoa(b.AgeDays)
	case "Sexo":
		return b.Sex.String()
	case "Expediente":
		return b.Expediente.String()
	case "Recepcion":
		return b.Reception.String()
	case "Procesamiento":
		return b.Processing.String()
	case "FResultado":
		return b.ResultDate.String()
	case "FechaRechazo":
		return b.Rejection.String()
	case "EstadoPaciente":
		return b.PatientState.String()
	case "StdoBoleta":
		return string(b.Status)
	case "Update":
		return b.Update.String()
	case "ReferidoPor":
		return b.ReferredBy.String()
	case "Id":
		return b.InternalID.String()
	}
	return AbsentMarker
}

// encodeField applies the per-column quoting rules of the legacy
// format. Sentinel-bracketed values (timestamps and #NULL#) pass
// through untouched; the reception date is always bracketed; identity
// columns are always quoted; result columns emit numbers with exactly
// one fractional digit, unquoted; everything else is quoted literal
// text. Embedded commas and quotes are not escaped — a constraint of
// the consumer format, not a defect.
func encodeField(col, val string) string {
	if strings.HasPrefix(val, "#") {
		return val
	}
	if col == "Recepcion" {
		return "#" + val + "#"
	}
	if identityColumns[col] {
		return `"` + val + `"`
	}
	if col == "Update" {
		return `"` + strings.ToUpper(val) + `"`
	}
	if _, ok := resultColumns[col]; ok {
		trimmed := strings.TrimSpace(val)
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return strconv.FormatFloat(f, 'f', 1, 64)
		}
		return `"` + trimmed + `"`
	}
	return `"` + val + `"`
}

// EncodeHeader renders the header line: every column name quoted.
func EncodeHeader() string {
	quoted := make([]string, len(OutputColumns))
	for i, col := range OutputColumns {
		quoted[i] = `"` + col + `"`
	}
	return strings.Join(quoted, ",")
}

// EncodeLine renders one boleta as a comma-joined output line.
func EncodeLine(b *Boleta) string {
	fields := make([]string, len(OutputColumns))
	for i, col := range OutputColumns {
		fields[i] = encodeField(col, b.columnValue(col))
	}
	return strings.Join(fields, ",")
}

// Encode writes the header and every boleta of the report, in
// first-seen order, transcoded to the Windows-1252 code page the
// legacy consumer expects. Runes without a Windows-1252 mapping are
// replaced; patient names have already been transliterated upstream.
func Encode(w io.Writer, r *Report) error {
	enc := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
	if _, err := io.WriteString(enc, EncodeHeader()+"\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range r.Boletas() {
		if _, err := io.WriteString(enc, EncodeLine(b)+"\n"); err != nil {
			return fmt.Errorf("write boleta %s: %w", b.OrderID, err)
		}
	}
	return enc.Close()
}

// WriteFile renders the report to path, fully or not at all: the
// content is built in memory and moved into place with a rename so a
// failed run never leaves a truncated file for the consumer to ingest.
func WriteFile(r *Report, path string) error {
	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".labsis-export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalize export: %w", err)
	}
	return nil
}
