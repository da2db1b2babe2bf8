package content

import "github.com/coursekit/promogen/internal/domain"

// Schema names the external response shape a collaborator declares. The
// field set has been renamed once already, so three shapes are in the wild:
// the legacy keys (v1), the canonical keys (v2), and a dual-keyed compat
// shape carrying both so old and new collaborators can read one payload.
type Schema string

const (
	SchemaV1     Schema = "v1"
	SchemaV2     Schema = "v2"
	SchemaCompat Schema = "compat"
)

// ParseSchema normalizes a declared schema, defaulting to compat.
func ParseSchema(s string) Schema {
	switch s {
	case "v1":
		return SchemaV1
	case "v2":
		return SchemaV2
	default:
		return SchemaCompat
	}
}

// Render maps the canonical internal result to the declared external shape.
// aliases maps canonical field name -> legacy field name.
func Render(c domain.StructuredContent, aliases map[string]string, schema Schema) map[string]string {
	switch schema {
	case SchemaV2:
		return c.Clone()
	case SchemaV1:
		out := make(map[string]string, len(c))
		for field, value := range c {
			if legacy := aliases[field]; legacy != "" {
				out[legacy] = value
			} else {
				out[field] = value
			}
		}
		return out
	default:
		out := c.Clone()
		for field, value := range c {
			if legacy := aliases[field]; legacy != "" {
				out[legacy] = value
			}
		}
		return out
	}
}
