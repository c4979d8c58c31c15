package auth

import "errors"

var (
	ErrDuplicateIdentity = errors.New("identity already registered")
	ErrUnknownIdentity   = errors.New("unknown identity")
	ErrBadCredentials    = errors.New("bad credentials")

	ErrMissingCredentials = errors.New("identity and secret are required")
	ErrIdentityTooShort   = errors.New("identity must have at least 3 characters")
	ErrSecretTooShort     = errors.New("secret must have at least 4 characters")
	ErrSecretTooLong      = errors.New("secret must fit in 72 bytes")
)

// Message returns the Czech text shown to the learner for err.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateIdentity):
		return "Uživatel s tímto jménem již existuje."
	case errors.Is(err, ErrUnknownIdentity):
		return "Uživatel neexistuje."
	case errors.Is(err, ErrBadCredentials):
		return "Špatné heslo."
	case errors.Is(err, ErrMissingCredentials):
		return "Vyplň prosím všechna pole."
	case errors.Is(err, ErrIdentityTooShort):
		return "Jméno musí mít alespoň 3 znaky."
	case errors.Is(err, ErrSecretTooShort):
		return "Heslo musí mít alespoň 4 znaky."
	case errors.Is(err, ErrSecretTooLong):
		return "Heslo je příliš dlouhé."
	case err == nil:
		return ""
	default:
		return "Něco se pokazilo. Zkus to znovu."
	}
}
