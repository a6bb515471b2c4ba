// Package auth guards the debug decoder's one authenticated route. It
// intentionally avoids policy decisions and storage concerns — callers
// own where tokens come from (flag, env, config file) and just hand this
// package something that satisfies Validator.
package auth

import (
	"crypto/subtle"
	"errors"
)

var ErrUnauthorized = errors.New("auth: unauthorized")

// Validator validates an authentication token.
type Validator interface {
	Validate(token string) error
}

// StaticToken is a single shared bearer token, compared in constant time.
// It is intended for development and local demo use of the decode route,
// not multi-operator deployments — see ClientTokens for that.
type StaticToken struct {
	Token string
}

func (s StaticToken) Validate(token string) error {
	if s.Token == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(s.Token), []byte(token)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// ClientTokens maps distinct bearer tokens to the name of the operator or
// tool that holds them, so the decode route can log who decoded a frame
// without every client sharing one secret. Comparisons are constant-time
// per candidate token, and the token is never used as a map key: every
// candidate is compared in turn.
type ClientTokens map[string]string

func (c ClientTokens) Validate(token string) error {
	_, ok := c.ClientFor(token)
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// ClientFor reports the client name registered for token, doing a
// constant-time compare against every candidate so the check's timing
// does not leak which, if any, token prefix matched.
func (c ClientTokens) ClientFor(token string) (string, bool) {
	tb := []byte(token)
	found, ok := "", false
	for candidate, name := range c {
		if subtle.ConstantTimeCompare([]byte(candidate), tb) == 1 && !ok {
			found, ok = name, true
		}
	}
	return found, ok
}

// FuncValidator adapts a function into a Validator.
type FuncValidator func(token string) error

func (f FuncValidator) Validate(token string) error {
	return f(token)
}
