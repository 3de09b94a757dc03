package providers

import "github.com/finparse/statement-parser/internal/parser"

// CapitalOne returns the Capital One strategy. Capital One statements close
// with a "Payment Information" box pairing "New Balance" and "Minimum
// Payment" and reference the card as "Account ending in 1234".
func CapitalOne() parser.Strategy {
	return parser.NewStrategy(parser.Config{
		Provider:   "capitalone",
		Signatures: []string{`capital\s+one`},
		StatementDate: parser.FieldRule{
			Patterns: []string{
				`(?:Statement|Billing) Period[:\s]+.*?[-–]\s*([\w\s,/]+\d{4})`,
				`Closing Date[:\s]+([\w\s,/]+\d{4})`,
				`Statement Date[:\s]+([\w\s,/]+\d{4})`,
			},
			Keywords:  []string{"closing date", "statement date", "billing period"},
			TableKeys: []string{"Closing Date", "Statement Date"},
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
				`New Balance[:\s]+\$([\d,]+\.\d{2})`,
				`Total Balance[:\s]+\$([\d,]+\.\d{2})`,
				`Balance Due[:\s]+\$([\d,]+\.\d{2})`,
			},
			Keywords:  []string{"new balance", "total balance", "balance due"},
			TableKeys: []string{"New Balance", "Total Balance"},
		},
		MinimumPayment: parser.FieldRule{
			Patterns: []string{
				`Minimum Payment(?:\s+Due)?[:\s]+\$([\d,]+\.\d{2})`,
				`Min(?:imum)? Pay(?:ment)?[:\s]+\$([\d,]+\.\d{2})`,
			},
			Keywords:  []string{"minimum payment due", "minimum payment"},
			TableKeys: []string{"Minimum Payment", "Minimum Payment Due"},
		},
		Account: parser.FieldRule{
			Patterns: []string{
				`Account ending in[:\s]+(\d{4})`,
				`Account Ending[:\s\-]+(\d{4})`,
				`Card (?:Number|Ending)[:\s]+.*?(\d{4})`,
			},
			Keywords:  []string{"account ending", "card ending"},
			TableKeys: []string{"Account Ending"},
		},
	})
}
