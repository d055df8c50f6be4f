package model

import (
	"strings"
)

type User struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Surname      string `db:"surname" json:"surname"`
	Phone        string `db:"phone" json:"phone"`
	City         string `db:"city" json:"city"`
	PasswordHash string `db:"password_hash" json:"-"`
	BuddyID      *int64 `db:"buddy_id" json:"buddy_id,omitempty"`
	BuddyTrust   bool   `db:"buddy_trust" json:"buddy_trust"`
}

// FullName joins name and surname the way the login response exposes them.
func (u *User) FullName() string {
	full := strings.TrimSpace(strings.TrimSpace(u.Name) + " " + strings.TrimSpace(u.Surname))
	if full == "" {
		return "—"
	}
	return full
}

// BuddyLink is the directed sharing edge from one user to at most one other.
// Trusted elevates the buddy from viewer to co-editor.
type BuddyLink struct {
	BuddyID int64
	Trusted bool
}
