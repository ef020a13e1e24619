package portal

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{4} \d{4} \d{4} \d{4}$`)
	expiryRe     = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
	holderRe     = regexp.MustCompile(`^[a-zA-Z ]{2,50}$`)
)

// CardDetails is what a customer types in to pay for a booking. It is only
// validated, never stored.
type CardDetails struct {
	Number string // XXXX XXXX XXXX XXXX
	Expiry string // MM/YY
	CVV    string
	Holder string
}

// Validate checks the format of every field and that the card has not
// expired by now. A card is good through the last day of its expiry month.
func (c CardDetails) Validate(now time.Time) error {
	if c.Number == "" || c.Expiry == "" || c.CVV == "" || c.Holder == "" {
		return fmt.Errorf("%w: all payment fields are required", ErrInvalidInput)
	}
	if !cardNumberRe.MatchString(c.Number) {
		return fmt.Errorf("%w: card number must look like XXXX XXXX XXXX XXXX", ErrInvalidInput)
	}
	m := expiryRe.FindStringSubmatch(c.Expiry)
	if m == nil {
		return fmt.Errorf("%w: expiry date must look like MM/YY", ErrInvalidInput)
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: expiry month must be 01-12", ErrInvalidInput)
	}
	if !cvvRe.MatchString(c.CVV) {
		return fmt.Errorf("%w: CVV must be 3 or 4 digits", ErrInvalidInput)
	}
	if !holderRe.MatchString(c.Holder) {
		return fmt.Errorf("%w: cardholder name must be 2-50 letters or spaces", ErrInvalidInput)
	}
	// Deliberately valid through the last day of the expiry month rather than
	// cut off on the first, matching how issuers print MM/YY. time.Date
	// normalises month 13 into January of the next year.
	firstInvalid := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
	if !now.Before(firstInvalid) {
		return fmt.Errorf("%w: card has expired", ErrInvalidInput)
	}
	return nil
}
