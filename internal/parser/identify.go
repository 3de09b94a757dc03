package parser

// identifyWindow bounds how much normalized text is searched for provider
// signatures. Issuer branding sits on the first page; scanning megabytes of
// transaction lines only invites false positives.
const identifyWindow = 3000

// Identifier selects the extraction strategy for a document from its text.
type Identifier struct {
	registry *Registry
}

func NewIdentifier(registry *Registry) *Identifier {
	return &Identifier{registry: registry}
}

// Identify returns the first registered strategy with at least one signature
// matching the text, or false when no strategy matches. Matching runs over
// lowercased, whitespace-collapsed text so casing and line-break noise from
// the extractor cannot hide a signature. The registration-order scan is the
// deterministic tie-break for documents that mention several issuers.
func (i *Identifier) Identify(text string) (Strategy, bool) {
	snippet := NormalizeText(text)
	if len(snippet) > identifyWindow {
		snippet = snippet[:identifyWindow]
	}

	for _, s := range i.registry.All() {
		for _, sig := range s.Signatures() {
			if sig.MatchString(snippet) {
				return s, true
			}
		}
	}
	return nil, false
}
