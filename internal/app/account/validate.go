package account

import (
	"regexp"
	"strings"
)

const (
	minAge         = 20
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt ignores anything past 72 bytes
	maxNameLen     = 100
)

var (
	phonePattern      = regexp.MustCompile(`^0\d{9}$`)
	emailLocalPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+$`)
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) validateRegistration(in *RegisterInput) error {
	in.Email = NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validateEmail(in.Email); err != nil {
		return err
	}
	if !phonePattern.MatchString(in.Phone) {
		return invalid("phone", "must be 10 digits starting with 0")
	}
	if in.FullName == "" || len(in.FullName) > maxNameLen {
		return invalid("full_name", "is required")
	}
	if in.Age < minAge {
		return invalid("age", "must be at least 20")
	}
	if len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordLen {
		return invalid("password", "must be 6 to 72 characters")
	}
	if in.Password != in.ConfirmPassword {
		return invalid("confirm_password", "does not match")
	}
	if !in.AcceptTerms {
		return invalid("accept_terms", "must be accepted")
	}
	return nil
}

func (s *Service) validateEmail(email string) error {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return invalid("email", "is malformed")
	}
	local, domain := email[:at], email[at+1:]
	if !emailLocalPattern.MatchString(local) {
		return invalid("email", "is malformed")
	}
	if len(s.domains) == 0 {
		return nil
	}
	for _, d := range s.domains {
		if domain == d {
			return nil
		}
	}
	return invalid("email", "domain not accepted")
}
