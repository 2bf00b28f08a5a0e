// Package access decides whether an identity may act on a notebook.
// It is a pure function over an entity snapshot so it can be tested
// without any storage in place. Notes carry no ACL of their own; their
// permissions always resolve through the parent notebook.
package access

import (
	"collabnote-be/internal/entity"

	"github.com/google/uuid"
)

// HasAccess reports whether userId holds at least requiredRole on the
// notebook. Rules, in order:
//
//   - the owner passes any role check
//   - public notebooks grant reader-level access to everyone
//   - otherwise the user must appear in the collaborator list, and an
//     editor check additionally requires the editor role
func HasAccess(nb *entity.Notebook, userId uuid.UUID, requiredRole entity.CollaboratorRole) bool {
	if nb == nil {
		return false
	}
	if nb.OwnerId == userId {
		return true
	}
	if nb.Settings.IsPublic && requiredRole == entity.RoleReader {
		return true
	}

	for _, c := range nb.Collaborators {
		if c.UserId != userId {
			continue
		}
		if requiredRole == entity.RoleReader {
			return true
		}
		return c.Role == entity.RoleEditor
	}
	return false
}

// CanRead and CanWrite are convenience wrappers for the two tiers the
// services actually check.
func CanRead(nb *entity.Notebook, userId uuid.UUID) bool {
	return HasAccess(nb, userId, entity.RoleReader)
}

func CanWrite(nb *entity.Notebook, userId uuid.UUID) bool {
	return HasAccess(nb, userId, entity.RoleEditor)
}
