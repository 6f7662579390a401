package model

// Session is the current signed-in identity. The zero value is the
// unauthenticated state: SignedIn false and every identity field empty.
type Session struct {
	SignedIn    bool
	Username    string
	DisplayName string
	Email       string
}
