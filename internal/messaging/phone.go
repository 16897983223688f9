package messaging

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const DefaultRegion = "BR"

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone devolve o telefone em E.164 (+5511999998888).
// Números sem DDI são tratados como brasileiros.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}

	num, err := phonenumbers.Parse(raw, DefaultRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", ErrInvalidPhone
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// WhatsAppNumber é o formato esperado pelos provedores: só dígitos, com DDI.
func WhatsAppNumber(raw string) (string, error) {
	e164, err := NormalizePhone(raw)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(e164, "+"), nil
}
