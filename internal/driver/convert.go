package driver

import (
	"fortio.org/safecast"

	"pico/internal/diag"
	"pico/internal/fault"
	"pico/internal/source"
	"pico/internal/token"
)

// reportFault reports the first failure of a file with a span covering the
// offending lexeme.
func reportFault(r diag.Reporter, file *source.File, fe *fault.Error) {
	size, err := safecast.Conv[uint32](len(fe.Lexeme))
	if err != nil {
		size = 0
	}
	span := source.SpanOf(file.ID, fe.Pos, size)

	b := diag.ReportError(r, faultCode(fe.Kind), span, fe.Error())
	switch {
	case fe.Kind == fault.KindMismatch && len(fe.OneOf) > 0:
		b.WithNote(span, "an expression starts with one of these tokens")
	case fe.Kind == fault.KindNoSuchToken:
		b.WithNote(span, "the program must end with "+token.End.String())
	case fe.Kind == fault.KindTrailingInput:
		b.WithNote(span, "nothing may follow "+token.End.String())
	}
	b.Emit()
}

func faultCode(k fault.Kind) diag.Code {
	switch k {
	case fault.KindNoMatchingLexeme:
		return diag.LexNoMatchingLexeme
	case fault.KindNoSuchToken:
		return diag.SynNoSuchToken
	case fault.KindMismatch:
		return diag.SynMismatch
	case fault.KindTrailingInput:
		return diag.SynTrailingInput
	default:
		return diag.UnknownCode
	}
}
