package models

// AnonymousSubject is the subject assigned when no identity provider is configured
const AnonymousSubject = "anonymous"

// Identity is the caller as vouched for by the external identity provider
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

// IsAnonymous reports whether the identity was not backed by a token
func (i *Identity) IsAnonymous() bool {
	return i == nil || i.Subject == AnonymousSubject
}
