package domain

// Caller identifies the authenticated actor behind a request. It is resolved
// once by the auth middleware and passed explicitly into every service call;
// services never read identity from ambient state.
type Caller struct {
	UID          string
	Email        string
	Name         string
	IsAdmin      bool
	IsSuperAdmin bool
}

// Owns reports whether the caller is the owner of the given profile key.
func (c Caller) Owns(uid string) bool {
	return c.UID != "" && c.UID == uid
}
