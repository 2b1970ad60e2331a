package models

// Group represents a set of members who track expenses together.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Jeju Trip").
	Name string

	// Members is the list of member identifiers in this group.
	// Identifiers are opaque: a user ID or a display name.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
