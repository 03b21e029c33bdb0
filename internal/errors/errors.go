package errors

import "fmt"

// DomainError carries a stable code for JSON clients next to the human message.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *DomainError) WithMessage(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Is matches on code so copies made by WithMessage still compare equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}
