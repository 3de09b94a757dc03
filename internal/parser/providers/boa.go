package providers

import "github.com/finparse/statement-parser/internal/parser"

// BankOfAmerica returns the Bank of America strategy.
func BankOfAmerica() parser.Strategy {
	return parser.NewStrategy(parser.Config{
		Provider:   "bankofamerica",
		Signatures: []string{`bank\s+of\s+america`, `\bbofa\b`},
		StatementDate: parser.FieldRule{
			Patterns: []string{
				`Closing Date[:\s]+([\w\s,/]+\d{4})`,
				`Statement (?:End(?:ing)?|Close)\s+Date[:\s]+([\w\s,/]+\d{4})`,
				`Statement Period.*?(?:through|to)[:\s]+([\w\s,/]+\d{4})`,
			},
			Keywords:  []string{"closing date", "statement end", "statement period"},
			TableKeys: []string{"Closing Date", "Statement Date"},
		},
		DueDate: parser.FieldRule{
			Patterns: []string{
				`Payment Due Date[:\s]+([\w\s,/]+\d{4})`,
				`Due Date[:\s]+([\w\s,/]+\d{4})`,
				`Payment By[:\s]+([\w\s,/]+\d{4})`,
			},
			Keywords:  []string{"payment due date", "due date", "payment by"},
			TableKeys: []string{"Payment Due Date", "Due Date"},
		},
		TotalBalance: parser.FieldRule{
			Patterns: []string{
				`New Balance(?: Total)?[:\s]+\$([\d,]+\.\d{2})`,
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
			Keywords:  []string{"minimum payment", "min payment"},
			TableKeys: []string{"Minimum Payment", "Minimum Payment Due"},
		},
		Account: parser.FieldRule{
			Patterns: []string{
				`Account\s+#[:\s]+.*?(\d{4})`,
				`Card (?:Number|Ending)[:\s]+.*?(\d{4})`,
				`Account Ending[:\s\-]+(\d{4})`,
			},
			Keywords:  []string{"account #", "account number", "card ending"},
			TableKeys: []string{"Account Ending"},
		},
	})
}
