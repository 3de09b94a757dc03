package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date is a calendar date with no time-of-day component. It marshals as
// "2006-01-02".
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Statement dates show up in several layouts depending on the issuer and on
// OCR noise. First matching layout wins.
var dateLayouts = []string{
	"1/2/06",
	"1/2/2006",
	"Jan 2 2006",
	"January 2 2006",
	"2006-01-02",
	"2-1-2006",
}

// ParseStatementDate parses a raw date string captured from statement text.
func ParseStatementDate(raw string) (Date, error) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(".", "", ",", "").Replace(s)
	s = collapseSpaces(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t}, nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date format %q", raw)
}

var amountCleanRe = regexp.MustCompile(`[$,\s]`)

// ParseAmount converts a captured currency string ("$1,234.56", "1234.56")
// into a decimal amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := amountCleanRe.ReplaceAllString(raw, "")
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	amt, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparseable amount %q: %w", raw, err)
	}
	return amt, nil
}

// ExtractedFields is the validated parse result. All five fields must be
// present and well-formed before a job may reach SUCCESS.
type ExtractedFields struct {
	StatementDate     Date            `json:"statement_date"`
	DueDate           Date            `json:"due_date"`
	TotalBalanceDue   decimal.Decimal `json:"total_balance_due"`
	MinimumPaymentDue decimal.Decimal `json:"minimum_payment_due"`

	// AccountIdentifier is a masked reference ("****1234"), never a full
	// account number.
	AccountIdentifier string `json:"account_identifier"`
}

// MaskAccount renders the last four digits as a masked account reference.
func MaskAccount(last4 string) string {
	return "****" + last4
}

// Result is what the orchestrator hands back for a successful parse.
type Result struct {
	Provider string           `json:"provider"`
	Fields   *ExtractedFields `json:"fields"`
}

var spacesRe = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return spacesRe.ReplaceAllString(s, " ")
}

// NormalizeText lowercases text and collapses the extractor's whitespace and
// line-break noise so signature matching sees a predictable stream.
func NormalizeText(text string) string {
	return collapseSpaces(strings.ToLower(text))
}
