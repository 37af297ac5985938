package service

import (
	"regexp"
	"strings"
)

// PaymentDetails carries the online payment sub-form. Kind selects the
// card path ("debit"/"credit") or the UPI path ("upi"). Payment itself
// is simulated; only the form shape is validated.
type PaymentDetails struct {
	Kind       string
	CardNumber string
	CardName   string
	CardExpiry string
	CardCVV    string
	UPIID      string
}

var (
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cvvRe    = regexp.MustCompile(`^[0-9]{3}$`)
)

// validPayment checks the online payment form: UPI needs an "@"
// separator; cards need a 16-digit number, a cardholder name, an MM/YY
// expiry and a 3-digit CVV.
func validPayment(p *PaymentDetails) bool {
	if p == nil {
		return false
	}
	if p.Kind == "upi" {
		return strings.Contains(p.UPIID, "@")
	}
	digits := strings.ReplaceAll(p.CardNumber, " ", "")
	if len(digits) != 16 || strings.ContainsFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) {
		return false
	}
	if strings.TrimSpace(p.CardName) == "" {
		return false
	}
	return expiryRe.MatchString(p.CardExpiry) && cvvRe.MatchString(p.CardCVV)
}
