package domain

// Account is the static backend account owned by the hosting application.
type Account struct {
	Username string
	Password string
	OrgID    string
	Profile  string
	// IPAuth means the institution authenticates by network address and no
	// authentication token is requested or sent.
	IPAuth bool
	Guest  bool
}

// HasCredentials reports whether username and password are both set.
func (a Account) HasCredentials() bool {
	return a.Username != "" && a.Password != ""
}
