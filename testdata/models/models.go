// Package models is the fixture used by the loader and CLI tests.
package models

import "time"

type Role int

const (
	RoleGuest Role = iota
	RoleMember
	RoleAdmin Role = 10
)

type User struct {
	ID        string `json:"id"`
	Name      string
	Email     *string
	Role      Role
	CreatedAt time.Time
	password  string
}

type Team struct {
	Name    string
	Owner   *User
	Members []User
	Parent  *Team
	Labels  map[string]string `json:"-"`
}

type Preferences struct {
	Theme  string
	Extras map[string]any
}
