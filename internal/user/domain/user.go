// Package domain modela a los usuarios de la tienda.
package domain

import (
	"net/mail"
	"strings"
	"time"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// User representa un usuario del sistema.
type User struct {
	id        string
	email     string
	name      string
	persisted bool
	createdAt time.Time
	updatedAt time.Time

	events sharedDomain.EventBuffer
}

func NewUser(id, email, name string) (*User, error) {
	if err := sharedDomain.ValidateID("userId", id); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, sharedDomain.NewValidationError("User name is required", "name", name)
	}

	now := time.Now().UTC()
	u := &User{id: id, email: email, name: name, createdAt: now, updatedAt: now}
	u.events.Record(events.UserCreated{Base: events.NewBase(), UserID: id, Email: email, Name: name})
	return u, nil
}

func ReconstituteUser(id, email, name string, createdAt, updatedAt time.Time) *User {
	return &User{id: id, email: email, name: name, persisted: true, createdAt: createdAt, updatedAt: updatedAt}
}

func (u *User) ID() string           { return u.id }
func (u *User) AggregateID() string  { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) IsPersisted() bool    { return u.persisted }
func (u *User) MarkSaved()           { u.persisted = true }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) DrainEvents() []events.DomainEvent {
	return u.events.Drain()
}

// ChangeEmail cambia el email; el mismo email (sin distinguir mayúsculas) no registra nada.
func (u *User) ChangeEmail(email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if email == u.email {
		return nil
	}
	old := u.email
	u.email = email
	u.updatedAt = time.Now().UTC()
	u.events.Record(events.UserEmailChanged{Base: events.NewBase(), UserID: u.id, OldEmail: old, NewEmail: email})
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", sharedDomain.NewValidationError("Invalid email address", "email", email)
	}
	return email, nil
}

var _ sharedDomain.AggregateRoot = (*User)(nil)
