package providers

import "github.com/finparse/statement-parser/internal/parser"

// Citi returns the Citi strategy. Citi labels the closing balance "Total
// Amount Due" and the closing date plain "Statement Date".
func Citi() parser.Strategy {
	return parser.NewStrategy(parser.Config{
		Provider:   "citi",
		Signatures: []string{`\bciti(?:bank)?\b`},
		StatementDate: parser.FieldRule{
			Patterns: []string{
				`Statement Date[:\s]+([\w\s,/]+\d{4})`,
				`Closing Date[:\s]+([\w\s,/]+\d{4})`,
				`Statement (?:end|close)[:\s]+([\w\s,/]+\d{4})`,
			},
			Keywords:  []string{"statement date", "closing date", "statement end"},
			TableKeys: []string{"Statement Date", "Closing Date"},
		},
		DueDate: parser.FieldRule{
			Patterns: []string{
				`Payment Due Date[:\s]+([\w\s,/]+\d{4})`,
				`Due Date[:\s]+([\w\s,/]+\d{4})`,
			},
			Keywords:  []string{"payment due date", "due date"},
			TableKeys: []string{"Payment Due Date", "Due Date"},
		},
		TotalBalance: parser.FieldRule{
			Patterns: []string{
				`Total Amount Due[:\s]+\$([\d,]+\.\d{2})`,
				`New Balance[:\s]+\$([\d,]+\.\d{2})`,
				`Balance Due[:\s]+\$([\d,]+\.\d{2})`,
			},
			Keywords:  []string{"total amount due", "new balance", "balance due"},
			TableKeys: []string{"Total Amount Due", "New Balance"},
		},
		MinimumPayment: parser.FieldRule{
			Patterns: []string{
				`Minimum Payment Due[:\s]+\$([\d,]+\.\d{2})`,
				`Min(?:imum)? Pay(?:ment)?[:\s]+\$([\d,]+\.\d{2})`,
			},
			Keywords:  []string{"minimum payment", "min payment"},
			TableKeys: []string{"Minimum Payment"},
		},
		Account: parser.FieldRule{
			Patterns: []string{
				`Account\s+#[:\s]+.*?(\d{4})`,
				`Card (?:Number|Ending)[:\s]+.*?(\d{4})`,
				`Account Ending[:\s\-]+(\d{4})`,
			},
			Keywords:  []string{"account #", "card ending", "account ending"},
			TableKeys: []string{"Account Ending"},
		},
	})
}
