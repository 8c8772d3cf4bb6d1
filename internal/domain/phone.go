package domain

import (
	"fmt"
	"regexp"
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// PhoneNumber is an E.164 formatted number such as +16175551212.
type PhoneNumber string

type RecipientList []PhoneNumber

func ParsePhoneNumber(raw string) (PhoneNumber, error) {
	if !e164Pattern.MatchString(raw) {
		return "", fmt.Errorf("%w %s: recipient should be formatted with a '+' and country code e.g., +16175551212 (E.164 format)", ErrInvalidPhoneNumber, raw)
	}

	return PhoneNumber(raw), nil
}

func ParseRecipients(raw []string) (RecipientList, error) {
	recipients := make(RecipientList, 0, len(raw))
	for _, value := range raw {
		number, err := ParsePhoneNumber(value)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, number)
	}

	return recipients, nil
}

func (l RecipientList) Strings() []string {
	out := make([]string, 0, len(l))
	for _, number := range l {
		out = append(out, string(number))
	}
	return out
}
