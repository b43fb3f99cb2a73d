package printing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"175", "$175.00"},
		{"1234.555", "$1,234.56"},
		{"1234.56", "$1,234.56"},
		{"1234567.89", "$1,234,567.89"},
		{"-200", "-$200.00"},
		{"-1234.56", "-$1,234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatMoney(amount))
		})
	}
}

func TestBuildReceiptHTML(t *testing.T) {
	entryID := uuid.New()
	html, err := BuildReceiptHTML(ReceiptData{
		FacilityName: "Maple House",
		ResidentName: "Jane Doe",
		EntryID:      entryID,
		EntryDate:    time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		AmountPaid:   decimal.NewFromInt(200),
		BalanceAfter: decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Maple House")
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "March 8, 2024")
	assert.Contains(t, html, "$200.00")
	assert.Contains(t, html, "$250.00")
	assert.Contains(t, html, entryID.String())
	assert.Contains(t, html, "Balance After Payment")
}

func TestBuildReceiptHTML_EscapesContent(t *testing.T) {
	html, err := BuildReceiptHTML(ReceiptData{
		FacilityName: "Lodge",
		ResidentName: `<script>alert("x")</script>`,
		EntryID:      uuid.New(),
		EntryDate:    time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		AmountPaid:   decimal.NewFromInt(1),
		BalanceAfter: decimal.Zero,
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert")
}
