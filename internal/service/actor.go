package service

import (
	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/ws"

	"github.com/google/uuid"
)

// Actor is the authenticated user performing an operation. Handlers build it
// from the request and pass it explicitly into every command.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   string
}

func (a Actor) ID() string { return a.UserID.String() }

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

func (a Actor) validate() error {
	if a.UserID == uuid.Nil {
		return apperror.Unauthorized("authentication required")
	}
	return nil
}

func (a Actor) eventUser() *ws.EventUser {
	return &ws.EventUser{ID: a.ID(), Name: a.Name, Email: a.Email}
}
