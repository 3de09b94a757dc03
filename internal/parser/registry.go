package parser

import (
	"fmt"
	"regexp"
)

// Strategy extracts the statement fields for a single issuer format.
type Strategy interface {
	// ProviderID is the stable issuer code ("amex", "chase", ...).
	ProviderID() string

	// Signatures are the detection patterns the identifier matches against
	// normalized statement text, in priority order.
	Signatures() []*regexp.Regexp

	// Extract pulls the five statement fields out of plain text. A non-nil
	// error means one or more required fields could not be located.
	Extract(text string) (*ExtractedFields, error)
}

// Registry holds the closed set of provider strategies. Registration happens
// once at startup; afterwards the registry is read-only shared state, so
// concurrent job executions need no locking to consult it.
type Registry struct {
	order      []Strategy
	byProvider map[string]Strategy
}

func NewRegistry() *Registry {
	return &Registry{byProvider: make(map[string]Strategy)}
}

// Register appends a strategy. Registration order is significant: it is the
// tie-break order used when a document matches more than one issuer's
// signatures. Registering the same provider id twice fails fast.
func (r *Registry) Register(s Strategy) error {
	id := s.ProviderID()
	if id == "" {
		return fmt.Errorf("strategy has empty provider id")
	}
	if _, exists := r.byProvider[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, id)
	}
	r.byProvider[id] = s
	r.order = append(r.order, s)
	return nil
}

// All returns the strategies in registration order.
func (r *Registry) All() []Strategy {
	return r.order
}

// Get looks a strategy up by provider id.
func (r *Registry) Get(providerID string) (Strategy, bool) {
	s, ok := r.byProvider[providerID]
	return s, ok
}

// Len reports the number of registered strategies.
func (r *Registry) Len() int {
	return len(r.order)
}
