// internal/services/actor.go
package services

import (
	"github.com/google/uuid"

	"github.com/Piyush5621/AnarchyBay/internal/models"
)

// Actor is the caller of a service method. The zero value is anonymous.
type Actor struct {
	ID    uuid.UUID
	Roles models.RoleSet
}

func NewActor(id uuid.UUID, roles []string) Actor {
	set := make(models.RoleSet, 0, len(roles))
	for _, r := range roles {
		if role := models.Role(r); role.Valid() {
			set = append(set, role)
		}
	}
	return Actor{ID: id, Roles: set}
}

func (a Actor) Anonymous() bool {
	return a.ID == uuid.Nil
}

func (a Actor) IsAdmin() bool {
	return a.Roles.Has(models.RoleAdmin)
}

// Owns reports whether the actor may manage a resource created by ownerID.
func (a Actor) Owns(ownerID uuid.UUID) bool {
	return !a.Anonymous() && (a.ID == ownerID || a.IsAdmin())
}
