// Package access decides who may change a post or a comment.
package access

import "inkwell/internal/models"

// Owned is anything with a single owning user.
type Owned interface {
	OwnerID() uint
}

// CanModify reports whether actor may edit or delete resource.
// Anonymous actors (nil) never can.
func CanModify(actor *models.User, resource Owned) bool {
	if actor == nil || actor.ID == 0 || resource == nil {
		return false
	}
	return actor.ID == resource.OwnerID()
}
