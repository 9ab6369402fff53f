package events

const (
	UserCreatedType      = "UserCreated"
	UserEmailChangedType = "UserEmailChanged"
)

type UserCreated struct {
	Base
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func (UserCreated) EventType() string { return UserCreatedType }

type UserEmailChanged struct {
	Base
	UserID   string `json:"userId"`
	OldEmail string `json:"oldEmail"`
	NewEmail string `json:"newEmail"`
}

func (UserEmailChanged) EventType() string { return UserEmailChangedType }
