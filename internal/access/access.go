// Package access maps an authenticated identity to permitted catalog
// operations. The policy is a single explicit rule table: reads and creates
// require any authenticated identity, destructive operations (deletes and
// item replacement, which can mint caller-chosen identifiers) require admin,
// and registration/login require nothing.
package access

import (
	apperrors "github.com/tmukherjee/storefront/internal/errors"
)

// Identity is the authenticated identity claim attached to a request.
type Identity struct {
	UserID   string
	Username string
	IsAdmin  bool
}

// Operation identifies a gated API operation.
type Operation string

// Gated operations.
const (
	OpReadCatalog Operation = "catalog.read"
	OpCreateStore Operation = "store.create"
	OpDeleteStore Operation = "store.delete"
	OpCreateItem  Operation = "item.create"
	OpReplaceItem Operation = "item.replace"
	OpDeleteItem  Operation = "item.delete"
	OpCreateTag   Operation = "tag.create"
	OpDeleteTag   Operation = "tag.delete"
	OpLinkTag     Operation = "tag.link"
	OpUnlinkTag   Operation = "tag.unlink"
	OpReadUsers   Operation = "user.read"
	OpDeleteUser  Operation = "user.delete"
	OpRegister    Operation = "user.register"
	OpLogin       Operation = "user.login"
)

// Requirement is the privilege level an operation demands.
type Requirement int

const (
	// RequireNone allows anonymous callers.
	RequireNone Requirement = iota
	// RequireIdentity allows any authenticated caller.
	RequireIdentity
	// RequireAdmin allows only identities carrying the admin flag.
	RequireAdmin
)

// rules is the complete operation policy. Unlisted operations deny by
// default.
var rules = map[Operation]Requirement{
	OpReadCatalog: RequireIdentity,
	OpCreateStore: RequireIdentity,
	OpCreateItem:  RequireIdentity,
	OpCreateTag:   RequireIdentity,
	OpLinkTag:     RequireIdentity,
	OpUnlinkTag:   RequireIdentity,
	OpReadUsers:   RequireIdentity,

	OpDeleteStore: RequireAdmin,
	OpDeleteItem:  RequireAdmin,
	OpDeleteTag:   RequireAdmin,
	OpDeleteUser:  RequireAdmin,
	OpReplaceItem: RequireAdmin,

	OpRegister: RequireNone,
	OpLogin:    RequireNone,
}

// Check returns nil when identity may perform op, and a typed error
// otherwise. A nil identity means the caller is unauthenticated.
func Check(identity *Identity, op Operation) error {
	req, ok := rules[op]
	if !ok {
		return apperrors.AccessDenied("operation not permitted")
	}

	switch req {
	case RequireNone:
		return nil
	case RequireIdentity:
		if identity == nil {
			return apperrors.Unauthenticated("authentication required")
		}
		return nil
	default:
		if identity == nil {
			return apperrors.Unauthenticated("authentication required")
		}
		if !identity.IsAdmin {
			return apperrors.AccessDenied("admin privilege required")
		}
		return nil
	}
}

// Requires reports the privilege level for op, for callers that want to
// consult the table without evaluating an identity.
func Requires(op Operation) Requirement {
	return rules[op]
}
