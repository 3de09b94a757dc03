package parser

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatementDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Date
		wantErr bool
	}{
		{name: "short numeric", raw: "12/31/25", want: NewDate(2025, time.December, 31)},
		{name: "long numeric", raw: "12/31/2025", want: NewDate(2025, time.December, 31)},
		{name: "abbreviated month", raw: "Dec 31, 2025", want: NewDate(2025, time.December, 31)},
		{name: "full month", raw: "December 31, 2025", want: NewDate(2025, time.December, 31)},
		{name: "iso", raw: "2025-12-31", want: NewDate(2025, time.December, 31)},
		{name: "abbreviated with period", raw: "Jan. 5, 2026", want: NewDate(2026, time.January, 5)},
		{name: "extra whitespace", raw: "  Dec  31,  2025 ", want: NewDate(2025, time.December, 31)},
		{name: "garbage", raw: "not a date", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatementDate(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want.Time), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "dollar and comma", raw: "$1,234.56", want: "1234.56"},
		{name: "plain", raw: "1234.56", want: "1234.56"},
		{name: "spaces", raw: " $ 35.00 ", want: "35.00"},
		{name: "garbage", raw: "N/A", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestExtractedFieldsJSON(t *testing.T) {
	fields := &ExtractedFields{
		StatementDate:     NewDate(2024, time.March, 1),
		DueDate:           NewDate(2024, time.March, 25),
		TotalBalanceDue:   decimal.RequireFromString("1234.56"),
		MinimumPaymentDue: decimal.RequireFromString("35.00"),
		AccountIdentifier: MaskAccount("1234"),
	}

	data, err := json.Marshal(fields)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "2024-03-01", m["statement_date"])
	assert.Equal(t, "2024-03-25", m["due_date"])
	assert.Equal(t, "1234.56", m["total_balance_due"])
	assert.Equal(t, "35.00", m["minimum_payment_due"])
	assert.Equal(t, "****1234", m["account_identifier"])
}

func TestNormalizeText(t *testing.T) {
	in := "AMERICAN\n  EXPRESS\t\tStatement"
	assert.Equal(t, "american express statement", NormalizeText(in))
}
