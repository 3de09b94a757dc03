package providers

import "github.com/finparse/statement-parser/internal/parser"

// Chase returns the Chase strategy. Chase prints the closing date as the end
// of a "Statement Period ... through ..." range and masks account numbers as
// "**** **** **** 1234".
func Chase() parser.Strategy {
	return parser.NewStrategy(parser.Config{
		Provider:   "chase",
		Signatures: []string{`\bchase\b`},
		StatementDate: parser.FieldRule{
			Patterns: []string{
				`Statement Period[:\s]+.*?through\s+([\w\s,/]+\d{4})`,
				`Closing Date[:\s]+([\w\s,/]+\d{4})`,
				`Statement (?:End(?:ing)?|Close)\s+Date[:\s]+([\w\s,/]+\d{4})`,
			},
			Keywords:  []string{"statement period through", "closing date", "statement end"},
			TableKeys: []string{"Closing Date", "Statement End Date"},
		},
		DueDate: parser.FieldRule{
			Patterns: []string{
				`Payment Due Date[:\s]+([\w\s,/]+\d{4})`,
				`Due Date[:\s]+([\w\s,/]+\d{4})`,
				`Pay(?:ment)? By[:\s]+([\w\s,/]+\d{4})`,
			},
			Keywords:  []string{"payment due date", "due date", "payment by"},
			TableKeys: []string{"Payment Due Date", "Due Date"},
		},
		TotalBalance: parser.FieldRule{
			Patterns: []string{
				`New Balance\s+\$([\d,]+\.\d{2})`,
				`Total Balance\s+\$([\d,]+\.\d{2})`,
				`Balance Due\s+\$([\d,]+\.\d{2})`,
				`Current Balance\s+\$([\d,]+\.\d{2})`,
			},
			Keywords:  []string{"new balance", "total balance", "balance due", "current balance"},
			TableKeys: []string{"New Balance", "Total Balance"},
		},
		MinimumPayment: parser.FieldRule{
			Patterns: []string{
				`Minimum Payment Due\s+\$([\d,]+\.\d{2})`,
				`Minimum Payment\s+\$([\d,]+\.\d{2})`,
				`Min(?:imum)? Pay(?:ment)?\s+\$([\d,]+\.\d{2})`,
			},
			Keywords:  []string{"minimum payment due", "minimum payment", "min payment"},
			TableKeys: []string{"Minimum Payment Due", "Minimum Payment"},
		},
		Account: parser.FieldRule{
			Patterns: []string{
				`Account Number[:\s]+.*?(\d{4})`,
				`Card (?:Number|Ending)[:\s]+.*?(\d{4})`,
				`Account Ending[:\s\-]+(\d{4})`,
			},
			Keywords:  []string{"account number", "card ending"},
			TableKeys: []string{"Account Ending"},
		},
	})
}
