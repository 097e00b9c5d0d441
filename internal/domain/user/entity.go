package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID        string    // ID is the opaque identifier assigned by the store
	Name      string    // Name is the display name of the user
	Email     string    // Email is the contact address, not unique
	Age       int64     // Age in years, always positive
	Mobile    int64     // Mobile number, always positive
	Interests []string  // Interests is an ordered list of tags, never nil
	CreatedAt time.Time // CreatedAt is set once by the store
	UpdatedAt time.Time // UpdatedAt is refreshed on every replace
}
