package domain

import (
	"fmt"
	"strings"
)

// User is a club account. Password holds an opaque credential: a bcrypt hash
// for accounts created or upgraded by this program, or a legacy plaintext
// value for seed and imported data.
type User struct {
	Username string
	Password string
	Role     Role
	Team     string
}

// Validate checks the shape of a user record, not its references.
func (u *User) Validate() error {
	if err := checkText("user", u.Username, u.Password, u.Team); err != nil {
		return err
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required: %w", ErrInvalidInput)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("user %q has unknown role %q: %w", u.Username, u.Role, ErrInvalidInput)
	}
	if u.Role.RequiresTeam() && u.Team == "" {
		return fmt.Errorf("user %q with role %s needs a team: %w", u.Username, u.Role, ErrInvalidInput)
	}
	return nil
}
