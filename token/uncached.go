package token

import "context"

// Uncached requests a new token on every call. The NCIP endpoint rejects tokens that
// have already been used, so check-ins never share the Manager's cached token.
type Uncached struct {
	creds Credentials
	opts  options
}

func NewUncached(creds Credentials, opts ...Option) *Uncached {
	return &Uncached{creds: creds, opts: newOptions(opts)}
}

func (u *Uncached) Token(ctx context.Context) (string, error) {
	accessToken, _, err := u.creds.fetch(ctx, u.opts.client, "ncip")
	return accessToken, err
}

// Invalidate is a no-op, there is nothing cached.
func (u *Uncached) Invalidate() {}
