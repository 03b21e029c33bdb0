package errors

var (
	ErrScoringUnavailable = &DomainError{
		Code:    "SCORING_UNAVAILABLE",
		Message: "scoring API unreachable",
	}
	ErrScoringRejected = &DomainError{
		Code:    "SCORING_REJECTED",
		Message: "scoring API rejected the request",
	}
	ErrMalformedResponse = &DomainError{
		Code:    "MALFORMED_RESPONSE",
		Message: "scoring API returned a malformed response",
	}
	ErrInvalidPayload = &DomainError{
		Code:    "INVALID_PAYLOAD",
		Message: "invalid request body",
	}
)
