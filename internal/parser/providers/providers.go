// Package providers declares the closed set of issuer extraction strategies.
// Registration order here is the identification tie-break order: a statement
// whose text happens to match several issuers' signatures is assigned to the
// earliest registered one.
package providers

import "github.com/finparse/statement-parser/internal/parser"

// All returns the supported strategies in tie-break order.
func All() []parser.Strategy {
	return []parser.Strategy{
		Amex(),
		Chase(),
		Citi(),
		CapitalOne(),
		BankOfAmerica(),
	}
}

// NewRegistry builds the process-lifetime registry. A duplicate provider id
// is a configuration error and fails here, before any job is served.
func NewRegistry() (*parser.Registry, error) {
	registry := parser.NewRegistry()
	for _, s := range All() {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
