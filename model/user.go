package model

import "time"

// User is an account of the service desk. Staff and superusers are administrators.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	Password     string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsActivated  bool      `json:"is_activated"`
	IsAdminPanel bool      `json:"is_admin_panel"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	DateJoined   time.Time `json:"date_joined"`
}

// IsAdmin reports whether the user holds an elevated role.
func (u *User) IsAdmin() bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}
