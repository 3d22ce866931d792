package model

// Identity is the authenticated principal carried by a verified
// bearer token and attached to the request context.
type Identity struct {
	UserID   string
	Username string
}
