package domain

import "errors"

// Sentinel errors forming the core's error taxonomy. The API layer maps each
// of these to a deterministic HTTP status code.
var (
	// ErrQuotationNotFound: the quotation id does not exist at all.
	ErrQuotationNotFound = errors.New("quotation not found")
	// ErrClientNotFound: the client id does not exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrUserNotFound: the user id or username does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists: registration collides with an existing username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials: login or registration input is unusable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden: the record exists but the caller lacks the scope or the
	// specific action permission. Deliberately distinct from not-found so
	// legitimate callers can tell the two apart.
	ErrForbidden = errors.New("access forbidden")

	// ErrIllegalTransition: the requested status change is not allowed from
	// the record's current status.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrQuotationImmutable: the quotation is approved; edit, delete and
	// further status changes are all rejected.
	ErrQuotationImmutable = errors.New("cannot modify an approved quotation")
	// ErrConcurrentModification: the optimistic write predicate failed because
	// another caller changed the record between read and write.
	ErrConcurrentModification = errors.New("quotation was modified concurrently")

	// ErrInvalidTaxSelection: the taxation selection is not one of the
	// computable modes (legacy records are display-only and never recomputed).
	ErrInvalidTaxSelection = errors.New("invalid taxation selection")

	// ErrEmptyBatch and ErrUnknownBulkAction are the only structural failures
	// a bulk request can produce; per-item failures are reported in the result.
	ErrEmptyBatch        = errors.New("bulk action requires at least one quotation id")
	ErrUnknownBulkAction = errors.New("unknown bulk action")
)
