package domain

// Verdict classifies how well a generated answer is supported by the
// retrieved context.
type Verdict string

// Groundedness verdicts.
const (
	// VerdictAccept means the answer is supported by the context.
	VerdictAccept Verdict = "accept"

	// VerdictLowConfidence means support is uncertain. The answer is
	// still returned, prefixed with a visible low-confidence marker.
	VerdictLowConfidence Verdict = "low_confidence"

	// VerdictReject means the answer is not supported. It is replaced
	// with the canonical refusal before being stored or returned.
	VerdictReject Verdict = "reject"
)

// IsValid returns true if the verdict is recognised.
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictAccept, VerdictLowConfidence, VerdictReject:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (v Verdict) String() string {
	return string(v)
}

// Canned replies. The knowledge base is Spanish-language, so the fixed
// user-facing strings are Spanish as well.
const (
	// Refusal is the canonical refusal returned whenever grounding is
	// insufficient or a generated answer fails validation. The
	// groundedness validator is idempotent on this exact string.
	Refusal = "Lo siento, no dispongo de información suficiente para responder a esa pregunta."

	// GenerationFallback is returned when the generation backend fails
	// or produces a malformed response.
	GenerationFallback = "Lo siento, ha ocurrido un problema al preparar la respuesta. Inténtalo de nuevo en unos minutos."

	// InvalidInputReply is returned for messages that fail minimal
	// validity checks, before any backend call.
	InvalidInputReply = "Por favor, escribe una pregunta para poder ayudarte."
)
