package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// fieldsSchema is the sanity contract a result must satisfy before a job may
// reach SUCCESS: all five fields present, dates in ISO form, amounts
// non-negative decimals, account reference masked to four digits.
const fieldsSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": [
    "statement_date",
    "due_date",
    "total_balance_due",
    "minimum_payment_due",
    "account_identifier"
  ],
  "properties": {
    "statement_date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "due_date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "total_balance_due": {"type": "string", "pattern": "^[0-9]+(\\.[0-9]+)?$"},
    "minimum_payment_due": {"type": "string", "pattern": "^[0-9]+(\\.[0-9]+)?$"},
    "account_identifier": {"type": "string", "pattern": "^\\*{4}[0-9]{4}$"}
  }
}`

// Validator checks extracted fields against the embedded JSON Schema.
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("fields.schema.json", strings.NewReader(fieldsSchema)); err != nil {
		return nil, fmt.Errorf("add fields schema: %w", err)
	}
	schema, err := compiler.Compile("fields.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile fields schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate returns a non-nil error when the record must not become a SUCCESS
// result. Zero dates are caught explicitly: they marshal to "0001-01-01",
// which is schema-shaped but means the field was never populated.
func (v *Validator) Validate(fields *ExtractedFields) error {
	if fields == nil {
		return fmt.Errorf("no fields extracted")
	}
	if fields.StatementDate.IsZero() {
		return fmt.Errorf("statement_date is unset")
	}
	if fields.DueDate.IsZero() {
		return fmt.Errorf("due_date is unset")
	}
	if fields.TotalBalanceDue.IsNegative() {
		return fmt.Errorf("total_balance_due is negative: %s", fields.TotalBalanceDue)
	}
	if fields.MinimumPaymentDue.IsNegative() {
		return fmt.Errorf("minimum_payment_due is negative: %s", fields.MinimumPaymentDue)
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal fields: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("fields do not match schema: %w", err)
	}
	return nil
}
