// Package token issues and verifies stateless session tokens.
//
// Tokens are HS256-signed JWTs carrying {iss, sub, exp} plus a fixed claim
// schema version. Validity is determined entirely by signature and expiration;
// nothing is stored server-side, so invalidating outstanding tokens means
// rotating the signing secret.
package token
