// Package auth issues and verifies the bearer tokens that identify the
// acting principal. Tokens are HS256-signed JWTs carrying the account id as
// subject and an expiry; verification tolerates a small clock skew.
package auth
