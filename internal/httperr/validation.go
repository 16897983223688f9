package httperr

import (
	"errors"
	"strings"
)

type Problem struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError acumula todos os problemas de entrada de um pedido.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	codes := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		codes = append(codes, p.Field+":"+p.Code)
	}
	return "validation failed: " + strings.Join(codes, ", ")
}

func (e *ValidationError) Add(field, code, message string) {
	e.Problems = append(e.Problems, Problem{Field: field, Code: code, Message: message})
}

func (e *ValidationError) Has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

// OrNil devolve nil quando nada foi adicionado.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
