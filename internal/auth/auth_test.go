package auth

import (
	"errors"
	"testing"
)

func TestStaticTokenValidate(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		input   string
		wantErr error
	}{
		{name: "empty token denied", stored: "", input: "abc", wantErr: ErrUnauthorized},
		{name: "mismatched token denied", stored: "abc", input: "xyz", wantErr: ErrUnauthorized},
		{name: "matching token accepted", stored: "abc", input: "abc", wantErr: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := (StaticToken{Token: tc.stored}).Validate(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestClientTokensValidateAndClientFor(t *testing.T) {
	tokens := ClientTokens{
		"tok-alice": "alice",
		"tok-bob":   "bob",
	}

	if err := tokens.Validate("tok-alice"); err != nil {
		t.Fatalf("expected known token accepted, got %v", err)
	}
	if err := tokens.Validate("unknown"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown token, got %v", err)
	}

	name, ok := tokens.ClientFor("tok-bob")
	if !ok || name != "bob" {
		t.Fatalf("ClientFor(tok-bob) = (%q, %v), want (bob, true)", name, ok)
	}
	if _, ok := tokens.ClientFor("unknown"); ok {
		t.Fatalf("expected ClientFor to report unknown token as not found")
	}
}

func TestFuncValidator(t *testing.T) {
	validator := FuncValidator(func(token string) error {
		if token != "ok" {
			return ErrUnauthorized
		}
		return nil
	})

	if err := validator.Validate("bad"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for bad token, got %v", err)
	}
	if err := validator.Validate("ok"); err != nil {
		t.Fatalf("expected success for ok token, got %v", err)
	}
}
