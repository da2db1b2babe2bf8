// Package tenant holds the request-scoped identity derived from a verified
// caller token. Nothing here outlives a single request.
package tenant

// AccessLevel is the caller's effective level on a company.
type AccessLevel string

const (
	AccessLevelAdmin    AccessLevel = "admin"
	AccessLevelCustomer AccessLevel = "customer"
	AccessLevelNone     AccessLevel = "no_access"
)

// Identity is the resolved caller identity for one request.
type Identity struct {
	// UserID is the verified caller.
	UserID string

	// CompanyID is the tenant the caller was authorized against.
	CompanyID string

	// AccessLevel is the level that authorization resolved.
	AccessLevel AccessLevel
}

// ParseAccessLevel normalizes an upstream access level string.
func ParseAccessLevel(s string) AccessLevel {
	switch s {
	case "admin":
		return AccessLevelAdmin
	case "customer":
		return AccessLevelCustomer
	default:
		return AccessLevelNone
	}
}
