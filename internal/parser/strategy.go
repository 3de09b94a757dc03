package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Shared capture patterns. Amounts tolerate a detached "$"; dates accept
// numeric, written-month and ISO layouts; masked digits cover ****1234 and
// xxxx-1234 style references.
var (
	amountRe       = regexp.MustCompile(`\$?\s*([\d,]+\.\d{2})`)
	anyDateRe      = regexp.MustCompile(`(?i)(\d{1,2}/\d{1,2}/\d{2,4})|([A-Za-z]+\.?\s+\d{1,2},?\s+\d{4})|(\d{4}-\d{2}-\d{2})`)
	maskedDigitsRe = regexp.MustCompile(`[*xX.]{4,}[\s-]?(\d{4})`)
	nonDigitRe     = regexp.MustCompile(`\D`)
)

// last4Res are the account-reference shapes seen across issuers, most
// specific first.
var last4Res = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Account\s+Ending\s*-?\s*(\d{4,5})`),
	regexp.MustCompile(`(?i)Card\s+(?:Number\s+)?Ending\s*[:\-]?\s*(\d{4,5})`),
	regexp.MustCompile(`(?i)Account\s*(?:#|Number)\s*[*xX.]+[\s\-]?(\d{4})`),
	regexp.MustCompile(`(?i)Card\s*(?:#|Number)?\s*[*xX.]+[\s\-]?(\d{4})`),
	maskedDigitsRe,
}

// tableLineRes match "Key    Value" summary-box lines that survive text
// extraction as wide-gap pairs.
var tableLineRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(New Balance|Total Balance|Balance Due|Total Amount Due)\s{2,}(.+)$`),
	regexp.MustCompile(`(?i)^(Payment Due Date|Due Date)\s{2,}(.+)$`),
	regexp.MustCompile(`(?i)^(Minimum Payment Due|Minimum Payment|Min Payment)\s{2,}(.+)$`),
	regexp.MustCompile(`(?i)^(Closing Date|Statement Date|Statement End Date)\s{2,}(.+)$`),
	regexp.MustCompile(`(?i)^(Account Ending|Card Ending)\s{2,}(.+)$`),
}

type fieldKind int

const (
	dateField fieldKind = iota
	amountField
	accountField
)

// FieldRule configures how one field is located: capture regexes first, then
// a proximity search near keywords, then summary-table key lookup.
type FieldRule struct {
	Patterns  []string
	Keywords  []string
	TableKeys []string
}

// Config declares a provider strategy entirely as data; NewStrategy compiles
// it into the shared extraction engine.
type Config struct {
	Provider   string
	Signatures []string

	StatementDate  FieldRule
	DueDate        FieldRule
	TotalBalance   FieldRule
	MinimumPayment FieldRule
	Account        FieldRule
}

type compiledRule struct {
	name      string
	kind      fieldKind
	patterns  []*regexp.Regexp
	keywords  []string
	tableKeys []string
}

// textStrategy is the extraction engine behind every registered provider.
type textStrategy struct {
	provider   string
	signatures []*regexp.Regexp
	rules      []compiledRule
}

// NewStrategy compiles a provider Config. Pattern and signature compilation
// panics on malformed regexes; provider configs are package literals, so this
// surfaces at startup, never per job.
func NewStrategy(cfg Config) Strategy {
	s := &textStrategy{provider: cfg.Provider}
	for _, sig := range cfg.Signatures {
		s.signatures = append(s.signatures, regexp.MustCompile(`(?i)`+sig))
	}
	s.rules = []compiledRule{
		compileRule("statement_date", dateField, cfg.StatementDate),
		compileRule("due_date", dateField, cfg.DueDate),
		compileRule("total_balance_due", amountField, cfg.TotalBalance),
		compileRule("minimum_payment_due", amountField, cfg.MinimumPayment),
		compileRule("account_identifier", accountField, cfg.Account),
	}
	return s
}

func compileRule(name string, kind fieldKind, r FieldRule) compiledRule {
	cr := compiledRule{name: name, kind: kind, keywords: r.Keywords, tableKeys: r.TableKeys}
	for _, p := range r.Patterns {
		cr.patterns = append(cr.patterns, regexp.MustCompile(`(?i)`+p))
	}
	return cr
}

func (s *textStrategy) ProviderID() string { return s.provider }

func (s *textStrategy) Signatures() []*regexp.Regexp { return s.signatures }

func (s *textStrategy) Extract(text string) (*ExtractedFields, error) {
	doc := newDocument(text)

	raw := make(map[string]string, len(s.rules))
	var missing []string
	for _, rule := range s.rules {
		value := doc.locate(rule)
		if value == "" {
			missing = append(missing, rule.name)
			continue
		}
		raw[rule.name] = value
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: could not locate %s", s.provider, strings.Join(missing, ", "))
	}

	stmtDate, err := ParseStatementDate(raw["statement_date"])
	if err != nil {
		return nil, fmt.Errorf("%s: statement_date: %w", s.provider, err)
	}
	dueDate, err := ParseStatementDate(raw["due_date"])
	if err != nil {
		return nil, fmt.Errorf("%s: due_date: %w", s.provider, err)
	}
	total, err := ParseAmount(raw["total_balance_due"])
	if err != nil {
		return nil, fmt.Errorf("%s: total_balance_due: %w", s.provider, err)
	}
	minimum, err := ParseAmount(raw["minimum_payment_due"])
	if err != nil {
		return nil, fmt.Errorf("%s: minimum_payment_due: %w", s.provider, err)
	}
	last4 := normalizeLast4(raw["account_identifier"])
	if last4 == "" {
		return nil, fmt.Errorf("%s: account_identifier: no four-digit reference in %q", s.provider, raw["account_identifier"])
	}

	return &ExtractedFields{
		StatementDate:     stmtDate,
		DueDate:           dueDate,
		TotalBalanceDue:   total,
		MinimumPaymentDue: minimum,
		AccountIdentifier: MaskAccount(last4),
	}, nil
}

// normalizeLast4 reduces a captured account reference to its last four digits.
func normalizeLast4(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}

// proximityWindow is how many characters after a keyword are scanned for the
// field pattern.
const proximityWindow = 150

// document wraps one statement's text with the lookup helpers the rules need.
// The summary table is parsed lazily and cached.
type document struct {
	text  string
	lower string
	table map[string]string
}

func newDocument(text string) *document {
	return &document{text: text, lower: strings.ToLower(text)}
}

// locate runs the rule's tiers in order: explicit patterns, then keyword
// proximity, then summary-table keys.
func (d *document) locate(rule compiledRule) string {
	for _, re := range rule.patterns {
		if v := firstGroup(re, d.text); v != "" {
			return v
		}
	}

	for _, kw := range rule.keywords {
		var v string
		switch rule.kind {
		case dateField:
			v = d.nearKeyword(kw, anyDateRe)
		case amountField:
			v = d.nearKeyword(kw, amountRe)
		case accountField:
			v = d.last4()
		}
		if v != "" {
			return v
		}
	}

	for _, key := range rule.tableKeys {
		if v := d.tableValue(key); v != "" {
			return v
		}
	}
	return ""
}

// nearKeyword searches a bounded window after the keyword's first occurrence.
func (d *document) nearKeyword(keyword string, pat *regexp.Regexp) string {
	idx := strings.Index(d.lower, strings.ToLower(keyword))
	if idx < 0 {
		return ""
	}
	start := idx + len(keyword)
	end := start + proximityWindow
	if end > len(d.text) {
		end = len(d.text)
	}
	return firstGroup(pat, d.text[start:end])
}

func (d *document) last4() string {
	for _, re := range last4Res {
		if v := firstGroup(re, d.text); v != "" {
			return v
		}
	}
	return ""
}

// tableValue looks a key up in the lazily built summary table.
func (d *document) tableValue(key string) string {
	if d.table == nil {
		d.table = make(map[string]string)
		for _, line := range strings.Split(d.text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			for _, re := range tableLineRes {
				m := re.FindStringSubmatch(line)
				if m == nil {
					continue
				}
				k := strings.ToLower(strings.TrimSpace(m[1]))
				if _, seen := d.table[k]; !seen {
					d.table[k] = strings.TrimSpace(m[2])
				}
			}
		}
	}
	return d.table[strings.ToLower(key)]
}

// firstGroup returns the first non-empty capture group of the first match.
func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return strings.TrimSpace(g)
		}
	}
	return ""
}
