package domain

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

const (
	RoleStudent = "student"
	RoleDriver  = "driver"
	RoleAdmin   = "admin"
)

// Authenticated reports whether a user identity is present.
func (r RequestContext) Authenticated() bool {
	return r.UserID != ""
}
