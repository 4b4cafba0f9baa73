package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTaxMode(t *testing.T) {
	tests := []struct {
		name          string
		businessState string
		customerState string
		want          TaxMode
	}{
		{name: "same state", businessState: "Karnataka", customerState: "Karnataka", want: TaxModeIntraState},
		{name: "different state", businessState: "Karnataka", customerState: "Maharashtra", want: TaxModeInterState},
		{name: "case insensitive", businessState: "karnataka", customerState: "KARNATAKA", want: TaxModeIntraState},
		{name: "whitespace trimmed", businessState: "  Karnataka ", customerState: "Karnataka", want: TaxModeIntraState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectTaxMode(tt.businessState, tt.customerState)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectTaxModeMissingState(t *testing.T) {
	tests := []struct {
		name          string
		businessState string
		customerState string
	}{
		{name: "blank business state", businessState: "", customerState: "Karnataka"},
		{name: "blank customer state", businessState: "Karnataka", customerState: ""},
		{name: "whitespace only", businessState: "   ", customerState: "Karnataka"},
		{name: "both blank", businessState: "", customerState: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DetectTaxMode(tt.businessState, tt.customerState)
			assert.ErrorIs(t, err, ErrStateMissing)
		})
	}
}
