package models

import "time"

// ProfileRole соответствует ENUM profile_role в БД.
type ProfileRole string

const (
	RolePlayer ProfileRole = "PLAYER"
	RoleAdmin  ProfileRole = "ADMIN"
)

type Profile struct {
	ID           int         `json:"id"`
	Username     string      `json:"username"`
	FullName     string      `json:"full_name"`
	University   string      `json:"university"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         ProfileRole `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
