package domain

// User is the identity attached to an authenticated session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Session is what the session provider hands back for a valid request.
type Session struct {
	User User `json:"user"`
}
