package model

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return Role(raw), true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// HomePath is the role's landing route after login.
func (r Role) HomePath() string {
	return "/" + string(r)
}

// Identity is the logged-in principal as the server describes it.
// Profile keeps the role-specific fields the server sent; this
// subsystem never looks inside it.
type Identity struct {
	ID           string          `json:"id,omitempty"`
	Phone        string          `json:"phone"`
	Role         Role            `json:"role"`
	DisplayName  string          `json:"name,omitempty"`
	IsFirstLogin bool            `json:"isFirstLogin"`
	Profile      json.RawMessage `json:"profile,omitempty"`
}

// Session pairs an Identity with its bearer token. At most one
// session exists at a time; it is the single record the store
// persists across restarts.
type Session struct {
	Identity Identity  `json:"identity"`
	Token    string    `json:"token"`
	SavedAt  time.Time `json:"savedAt"`
}
