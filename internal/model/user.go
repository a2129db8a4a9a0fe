package model

// User is the read-only projection of the authenticated identity,
// fetched once per session start from GET /me.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
