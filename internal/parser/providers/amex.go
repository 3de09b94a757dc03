package providers

import "github.com/finparse/statement-parser/internal/parser"

// Amex returns the American Express strategy. Amex statements favor written
// month dates ("Dec 31, 2025") and "Account Ending 1-23456" references, and
// OCR scans of them often detach the "$" from amounts.
func Amex() parser.Strategy {
	return parser.NewStrategy(parser.Config{
		Provider:   "amex",
		Signatures: []string{`american\s+express`, `\bamex\b`},
		StatementDate: parser.FieldRule{
			Patterns: []string{
				`Closing\s*Date[:\s]+(\w+\.?\s+\d{1,2},?\s+\d{4})`,
				`Statement\s*(?:Closing\s*)?Date[:\s]+(\w+\.?\s+\d{1,2},?\s+\d{4})`,
				`Statement\s*End(?:ing)?[:\s]+(\w+\.?\s+\d{1,2},?\s+\d{4})`,
				`Closing\s*Date[:\s]+(\d{1,2}/\d{1,2}/\d{2,4})`,
			},
			Keywords:  []string{"closing date", "statement closing date", "statement end date", "statement date"},
			TableKeys: []string{"Closing Date", "Statement Date"},
		},
		DueDate: parser.FieldRule{
			Patterns: []string{
				`Payment\s*Due\s*Date[:\s]+(\w+\.?\s+\d{1,2},?\s+\d{4})`,
				`Due\s*Date[:\s]+(\w+\.?\s+\d{1,2},?\s+\d{4})`,
				`Pay(?:ment)?\s*By[:\s]+(\w+\.?\s+\d{1,2},?\s+\d{4})`,
				`Payment\s*Due\s*Date[:\s]+(\d{1,2}/\d{1,2}/\d{2,4})`,
			},
			Keywords:  []string{"payment due date", "due date", "payment due", "pay by"},
			TableKeys: []string{"Payment Due Date", "Due Date"},
		},
		TotalBalance: parser.FieldRule{
			Patterns: []string{
				`New\s*Balance[:\s]+\$?\s*([\d,]+\.\d{2})`,
				`Total\s*Balance[:\s]+\$?\s*([\d,]+\.\d{2})`,
				`Balance\s*Due[:\s]+\$?\s*([\d,]+\.\d{2})`,
				`Current\s*Balance[:\s]+\$?\s*([\d,]+\.\d{2})`,
			},
			Keywords:  []string{"new balance", "total balance", "balance due", "current balance", "amount due"},
			TableKeys: []string{"New Balance", "Total Balance", "Balance Due"},
		},
		MinimumPayment: parser.FieldRule{
			Patterns: []string{
				`Minimum\s*Payment\s*Due[:\s]+\$?\s*([\d,]+\.\d{2})`,
				`Minimum\s*(?:Amount\s*)?Due[:\s]+\$?\s*([\d,]+\.\d{2})`,
				`Min(?:imum)?\s*Payment[:\s]+\$?\s*([\d,]+\.\d{2})`,
			},
			Keywords:  []string{"minimum payment due", "minimum payment", "minimum amount due", "min payment"},
			TableKeys: []string{"Minimum Payment Due", "Minimum Payment", "Min Payment"},
		},
		Account: parser.FieldRule{
			Patterns: []string{
				`Account\s*Ending\s*(?:in\s*)?[:\-]?\s*(\d{4,5})`,
				`Card\s*Ending\s*[:\-]?\s*(\d{4,5})`,
				`\d{4,6}[\s\-]\d{6}[\s\-](\d{5})`,
				`[x*]{4,}[\s\-]?(\d{4})`,
			},
			Keywords:  []string{"account ending", "card ending", "account number", "card number"},
			TableKeys: []string{"Account Ending", "Card Ending"},
		},
	})
}
