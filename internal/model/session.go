package model

// Session is the server-side record behind a session cookie. It is
// created on login, stored in Redis keyed by the cookie's session ID,
// and destroyed on logout or TTL expiry.
type Session struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
