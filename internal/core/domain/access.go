package domain

// Caller is the immutable identity every core operation receives explicitly.
// It is built once from the request's auth claims and passed down; the core
// never reads identity from ambient state.
type Caller struct {
	ID   string
	Role Role
}

// AccessScope is the narrowing a caller must apply to any list or bulk query.
type AccessScope struct {
	// FilterByOwner means the query must be restricted to records whose
	// owner id equals the caller's id.
	FilterByOwner bool
}

// ScopeFor decides whether the caller sees only their own records or all
// records of a resource type. The result is a value the caller applies to
// its query, keeping the narrowing visible and testable.
func ScopeFor(caller Caller, resource Resource) AccessScope {
	return AccessScope{
		FilterByOwner: !Resolve(caller.Role).Has(resource, ActionReadAll),
	}
}

// CanAccessRecord reports whether the caller may touch a specific record.
// List filtering alone is insufficient because records can be addressed
// directly by id, so this check guards every single-record read, update,
// delete, status change, duplicate, PDF and send operation.
func CanAccessRecord(caller Caller, resource Resource, ownerID string) bool {
	if Resolve(caller.Role).Has(resource, ActionReadAll) {
		return true
	}
	return ownerID != "" && ownerID == caller.ID
}
