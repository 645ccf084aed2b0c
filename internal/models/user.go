package models

import "time"

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	ContactNumber  *string   `json:"contactNumber"`
	ProfilePicture *string   `json:"profilePicture"`
	Role           string    `json:"role"`
	IsVerified     bool      `json:"isVerified"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (u *User) IsHost() bool {
	return u != nil && u.Role == RoleHost
}

// UserSummary is the public part of a user embedded into other records.
type UserSummary struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	Email          string  `json:"email,omitempty"`
	ProfilePicture *string `json:"profilePicture"`
}
