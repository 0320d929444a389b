package domain

import "context"

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username string `gorm:"type:varchar(100);unique;not null;column:username" json:"username"`
	Email    string `gorm:"type:varchar(100);unique;not null;column:email" json:"email"`
	Password string `gorm:"type:varchar(255);not null;column:password" json:"-"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// AuthRepository persists users. CreateUser returns ErrConflict when the username or
// email is already taken; lookups return ErrNotFound for absent users.
type AuthRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUserPassword(ctx context.Context, userID uint, passwordHash string) error
}
