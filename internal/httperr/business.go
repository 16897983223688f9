package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode devolve o código de um BusinessError embrulhado em err.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// ===============================
// Conflitos de agenda
// ===============================

// ConflictError indica que o pedido é válido, mas o horário não está livre.
// A interface deve oferecer outro horário, não corrigir o formulário.
type ConflictError struct {
	Code    string
	Message string
}

func (e ConflictError) Error() string {
	return e.Code
}

func ErrConflict(code, message string) error {
	return ConflictError{Code: code, Message: message}
}

func IsConflict(err error, code string) bool {
	var ce ConflictError
	if errors.As(err, &ce) {
		return code == "" || ce.Code == code
	}
	return false
}
