package boleta

import (
	"strings"
	"time"
)

// AbsentMarker is the literal token the legacy consumer understands as
// "no value". It never propagates through business logic; Value carries
// presence explicitly and only the encoder and display paths render it.
const AbsentMarker = "#NULL#"

// Value is a field value that is either present or absent. The labsis
// source data is riddled with NULLs and unparseable timestamps; every
// one of them degrades to the absent Value instead of aborting a scan.
type Value struct {
	raw     string
	present bool
}

// Present wraps a raw string as a present Value.
func Present(s string) Value { return Value{raw: s, present: true} }

// Absent returns the absent Value.
func Absent() Value { return Value{} }

// IsAbsent reports whether the value carries no data.
func (v Value) IsAbsent() bool { return !v.present }

// String returns the raw value, or the absent marker when absent.
func (v Value) String() string {
	if !v.present {
		return AbsentMarker
	}
	return v.raw
}

// Bracketed returns the value wrapped in sentinel brackets, or the
// absent marker. Already-bracketed values are returned as-is.
func (v Value) Bracketed() Value {
	if !v.present || strings.HasPrefix(v.raw, "#") {
		return v
	}
	return Present("#" + v.raw + "#")
}

// sentinelLayout is the timestamp form carried inside sentinel brackets.
const sentinelLayout = "2006-01-02 15:04:05"

// dateLayouts are the raw timestamp forms the labsis database emits:
// with and without fractional seconds, with and without a zone offset.
var dateLayouts = []string{
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// ParseDate normalizes a raw database timestamp to its date-only form
// (YYYY-MM-DD). Any parse failure or empty input degrades to Absent;
// it never returns an error to the caller.
func ParseDate(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Absent()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Present(t.Format("2006-01-02"))
		}
	}
	return Absent()
}

// ParseTimestamp normalizes a raw database timestamp into the sentinel
// bracket notation (#YYYY-MM-DD HH:MM:SS#) the legacy consumer expects
// for processing and result timestamps. Absent on empty or unparseable
// input.
func ParseTimestamp(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Absent()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Present("#" + t.Format(sentinelLayout) + "#")
		}
	}
	return Absent()
}

// EarliestOf returns the earlier of two sentinel timestamps by parsed
// value. When only one operand is present it wins; Absent only when
// both are. Values whose inner text does not parse are kept as the
// first operand, matching the once-set-only-moves-earlier policy.
func EarliestOf(a, b Value) Value {
	if a.IsAbsent() {
		return b
	}
	if b.IsAbsent() {
		return a
	}
	at, aok := a.sentinelTime()
	bt, bok := b.sentinelTime()
	if aok && bok && bt.Before(at) {
		return b
	}
	return a
}

func (v Value) sentinelTime() (time.Time, bool) {
	t, err := time.Parse(sentinelLayout, strings.Trim(v.raw, "#"))
	return t, err == nil
}

// transliterations maps the accented characters seen in patient names
// to the unaccented equivalents the Windows-1252 consumer stores.
var transliterations = strings.NewReplacer(
	"ñ", "n", "Ñ", "N",
	"á", "a", "Á", "A",
	"é", "e", "É", "E",
	"í", "i", "Í", "I",
	"ó", "o", "Ó", "O",
	"ú", "u", "Ú", "U",
)

// Transliterate applies the fixed character substitution table used for
// patient display names. No other Unicode handling is performed.
func Transliterate(text string) string {
	return transliterations.Replace(text)
}
