package domain

// Prompt is a rendered provider request: a fixed instruction preamble plus
// the caller's course text. Building one is deterministic.
type Prompt struct {
	// System carries the instruction preamble.
	System string

	// User carries the shape specification and the caller's text verbatim.
	User string

	// SchemaVersion marks the content schema the prompt asks for.
	SchemaVersion string
}

// StructuredContent maps canonical content field names to non-empty string
// values. Every required field is populated before a value of this type is
// surfaced as success; partial results never leave the extractor.
type StructuredContent map[string]string

// Clone returns a copy so callers can re-key without touching the original.
func (c StructuredContent) Clone() StructuredContent {
	out := make(StructuredContent, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Product is one record of the upstream catalog. The core never mutates
// products, it only filters them by owning company.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	CompanyID   string `json:"company_id"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

// ProductList is the filtered catalog returned for one verified tenant.
// An empty Products slice is a valid result.
type ProductList struct {
	CompanyID string    `json:"company_id"`
	Products  []Product `json:"data"`
}
