package domain

// UserSession is the signed-in (or guest) principal. Authentication is mocked:
// no credential is ever verified or stored.
type UserSession struct {
	ID      string `json:"id"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	IsGuest bool   `json:"isGuest"`
}
