package gst

import (
	"errors"
	"strings"
)

// TaxMode selects the intra-state CGST/SGST split vs the inter-state IGST
// model. It is recomputed from the business and customer states when needed;
// only the resulting per-item percentages are persisted.
type TaxMode string

const (
	TaxModeIntraState TaxMode = "intra-state"
	TaxModeInterState TaxMode = "inter-state"
)

// ErrStateMissing means the business or customer state is blank so the tax
// mode cannot be detected. The caller must then supply a mode explicitly;
// there is no silent fallback.
var ErrStateMissing = errors.New("registered state missing")

// DetectTaxMode compares the business's registered state with the customer's,
// trimmed and case-insensitively. Equal states mean intra-state supply.
func DetectTaxMode(businessState, customerState string) (TaxMode, error) {
	b := strings.TrimSpace(businessState)
	c := strings.TrimSpace(customerState)
	if b == "" || c == "" {
		return "", ErrStateMissing
	}
	if strings.EqualFold(b, c) {
		return TaxModeIntraState, nil
	}
	return TaxModeInterState, nil
}
