package boleta

// Resolve decides which raw column carries the authoritative value for
// a recognized result row. The hemoglobin panel is reported by a
// separate instrument pathway and may arrive as a letter code (F/A/S/C)
// in the alpha column; the validated flag marks which pathway produced
// the final value. Every other test always reports numerically.
//
// Unrecognized codes never reach this function; the consolidation pass
// treats them as rejection signals before resolving.
func Resolve(code ResultCode, numericValue, alphaValue *string, validatedBy *int) Value {
	if code.Hemoglobin() && validatedBy != nil && *validatedBy != 0 {
		return valueOrAbsent(alphaValue)
	}
	return valueOrAbsent(numericValue)
}

func valueOrAbsent(s *string) Value {
	if s == nil {
		return Absent()
	}
	return Present(*s)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
