package register

import (
	"net/mail"
	"unicode"
)

// ValidationState mirrors the per-field checklist the join form walks
// through. Every flag must be true before an account is created.
type ValidationState struct {
	EmailFormat    bool `json:"emailFormat"`
	EmailAvailable bool `json:"emailAvailable"`
	EmailVerified  bool `json:"emailVerified"`
	PasswordPolicy bool `json:"passwordPolicy"`
	PasswordMatch  bool `json:"passwordMatch"`
	Agreements     bool `json:"agreements"`
}

// OK reports whether every check passed.
func (v ValidationState) OK() bool {
	return v.EmailFormat &&
		v.EmailAvailable &&
		v.EmailVerified &&
		v.PasswordPolicy &&
		v.PasswordMatch &&
		v.Agreements
}

// evaluate builds the checklist for a register attempt. Email
// availability and verification are external facts supplied by the
// caller.
func evaluate(input RegisterInput, emailAvailable, emailVerified bool) ValidationState {
	return ValidationState{
		EmailFormat:    isEmailFormat(input.Email),
		EmailAvailable: emailAvailable,
		EmailVerified:  emailVerified,
		PasswordPolicy: meetsPasswordPolicy(input.Password),
		PasswordMatch:  input.Password != "" && input.Password == input.PasswordConfirm,
		Agreements:     input.AgreeTerms && input.AgreePrivacy,
	}
}

func isEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// meetsPasswordPolicy requires at least eight characters with a
// letter, a digit, and a special character.
func meetsPasswordPolicy(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}
