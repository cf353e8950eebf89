// Package models defines server-side data models persisted in the database.
package models

// User is an account row. IDs are assigned monotonically at registration;
// the row is immutable after creation except for deletion.
type User struct {
	ID       int64
	Username string
	// PasswordHash is a self-describing PHC string (algorithm, parameters,
	// salt and digest), so verification needs no external parameter lookup.
	PasswordHash string
}
