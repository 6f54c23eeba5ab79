package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"storefront/models"
)

// CardDetails carries the raw card fields from a checkout request.
// Only the last four digits and the detected brand are ever persisted.
type CardDetails struct {
	Name   string `json:"card_name"`
	Number string `json:"card_number"`
	Expiry string `json:"card_expiry"`
	CVV    string `json:"card_cvv"`
}

var (
	cardNumberRe = regexp.MustCompile(`^\d{13,19}$`)
	cardExpiryRe = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cardCVVRe    = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidateCard checks payment input against the given method.
// Non-card methods need no card details; card methods require all
// fields, a 13-19 digit number passing the Luhn checksum, an MM/YY
// expiry valid through the end of the stated month relative to now,
// and a 3-4 digit CVV. The returned error is a caller-facing reason.
func ValidateCard(method string, card *CardDetails, now time.Time) error {
	if !models.IsCardMethod(method) {
		return nil
	}

	if card == nil {
		return errors.New("Card details are required.")
	}
	if card.Name == "" || card.Number == "" || card.Expiry == "" || card.CVV == "" {
		return errors.New("All card fields are required.")
	}

	number := CleanCardNumber(card.Number)
	if !cardNumberRe.MatchString(number) {
		return errors.New("Invalid card number.")
	}
	if !luhnCheck(number) {
		return errors.New("Invalid card number (checksum failed).")
	}

	if !cardExpiryRe.MatchString(card.Expiry) {
		return errors.New("Expiry must be in MM/YY format.")
	}
	month := int(card.Expiry[0]-'0')*10 + int(card.Expiry[1]-'0')
	year := int(card.Expiry[3]-'0')*10 + int(card.Expiry[4]-'0')
	if month < 1 || month > 12 {
		return errors.New("Invalid expiry month.")
	}
	// A card stated as MM/YY is valid through the last instant of that
	// month, so the expiry point is the first day of the next month.
	expiry := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !expiry.After(now) {
		return errors.New("Card has expired.")
	}

	if !cardCVVRe.MatchString(card.CVV) {
		return errors.New("Invalid CVV.")
	}

	return nil
}

// CleanCardNumber strips the spaces and dashes users type into card
// number fields.
func CleanCardNumber(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	return strings.ReplaceAll(number, "-", "")
}

// luhnCheck implements the Luhn checksum: doubling every second digit
// from the right, reducing by 9 when above 9, and requiring the sum to
// be divisible by 10. It catches typos, not fraud.
func luhnCheck(number string) bool {
	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		n := int(number[i] - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}

// DetectCardBrand returns the display brand for a card number prefix.
// Never used for validation.
func DetectCardBrand(number string) string {
	number = CleanCardNumber(number)
	switch {
	case strings.HasPrefix(number, "4"):
		return "visa"
	case len(number) >= 2 && number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return "mastercard"
	case strings.HasPrefix(number, "34") || strings.HasPrefix(number, "37"):
		return "amex"
	case strings.HasPrefix(number, "6011") || strings.HasPrefix(number, "65"):
		return "discover"
	default:
		return "unknown"
	}
}
