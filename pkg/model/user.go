package model

import "time"

const (
	RoleUser  = "user"
	RoleHost  = "host"
	RoleAdmin = "admin"
)

type User struct {
	ID           string         `json:"_id,omitempty" validate:"omitempty"`
	FirstName    string         `json:"firstName" validate:"required,min=1,max=100"`
	LastName     string         `json:"lastName" validate:"required,min=1,max=100"`
	Email        string         `json:"email" validate:"required,email"`
	PasswordHash string         `json:"passwordHash,omitempty" validate:"omitempty"`
	Role         string         `json:"role" validate:"required,oneof=user host admin"`
	Phone        string         `json:"phone,omitempty" validate:"omitempty,max=30"`
	Wishlist     []WishlistItem `json:"wishlist" validate:"omitempty,dive"`
	IsActive     bool           `json:"isActive"`
	CreatedAt    string         `json:"createdAt,omitempty"`
	UpdatedAt    string         `json:"updatedAt,omitempty"`
	Version      int64          `json:"_version,omitempty"`
}

// UserSignup is the account-creation input. The plaintext password only
// exists here; it is hashed before the user is persisted.
type UserSignup struct {
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=user host admin"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

type UserUpdate struct {
	FirstName string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// WishlistItem references a saved trip or accommodation. Type tells the
// caller which catalog the ID belongs to; existence is never verified.
type WishlistItem struct {
	ID      string    `json:"id" validate:"required"`
	Type    string    `json:"type" validate:"required,oneof=trip accommodation"`
	AddedAt time.Time `json:"addedAt"`
}

// Public returns a copy safe to hand outside this layer: the password
// hash never leaves storage form.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// AddWishlistItem appends the item unless an entry with the same ID is
// already present. Reports whether the list changed.
func (u *User) AddWishlistItem(item WishlistItem) bool {
	for _, existing := range u.Wishlist {
		if existing.ID == item.ID {
			return false
		}
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	u.Wishlist = append(u.Wishlist, item)
	return true
}

// RemoveWishlistItem drops the entry with the given ID, preserving order
// of the rest. Reports whether anything was removed.
func (u *User) RemoveWishlistItem(id string) bool {
	for i, existing := range u.Wishlist {
		if existing.ID == id {
			u.Wishlist = append(u.Wishlist[:i], u.Wishlist[i+1:]...)
			return true
		}
	}
	return false
}
