package core

// Authorizer decides whether a claimant may use a credential. Inputs carry
// an unlock credential and outputs a lock credential; both are checked
// against the claimant's address through this interface.
type Authorizer interface {
	Verify(credential string, claim string) bool
}

// CredentialMatcher authorizes a claim when it equals the credential. It
// stands in for a signature scheme.
type CredentialMatcher struct{}

var _ Authorizer = CredentialMatcher{}

// Verify implements Authorizer.
func (CredentialMatcher) Verify(credential string, claim string) bool {
	return credential == claim
}

// DefaultAuthorizer is used when no Authorizer is supplied.
var DefaultAuthorizer Authorizer = CredentialMatcher{}
