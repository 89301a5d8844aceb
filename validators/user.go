package validators

import (
	"regexp"
	"strings"
)

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	imageURLRegex  = regexp.MustCompile(`^https?://\S+$`)
	passwordChars  = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{6,}$`)
	hasLower       = regexp.MustCompile(`[a-z]`)
	hasUpper       = regexp.MustCompile(`[A-Z]`)
	hasDigit       = regexp.MustCompile(`\d`)
	hasSpecialChar = regexp.MustCompile(`[@$!%*?&]`)
)

const (
	minPasswordLength = 6
	maxPasswordLength = 64
	maxBioLength      = 500

	msgStrongPassword = "Password must include at least one uppercase letter, one lowercase letter, one number, and one special character."
)

// NormalizeEmail is the form in which emails are stored and looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StrongPassword is shared by every endpoint that accepts a new password.
func StrongPassword(password string) Result {
	if !passwordChars.MatchString(password) ||
		!hasLower.MatchString(password) ||
		!hasUpper.MatchString(password) ||
		!hasDigit.MatchString(password) ||
		!hasSpecialChar.MatchString(password) {
		return Fail("password", msgStrongPassword)
	}
	return OK()
}

func passwordLength(password string) Result {
	n := length(password)
	if n < minPasswordLength {
		return Fail("password", "Password must be at least 6 characters long.")
	}
	if n > maxPasswordLength {
		return Fail("password", "Password too long. Max 64 characters allowed.")
	}
	return OK()
}

func username(name string) Result {
	name = strings.TrimSpace(name)
	if n := length(name); n < 3 || n > 50 {
		return Fail("username", "Username must be between 3 and 50 characters long.")
	}
	if !usernameRegex.MatchString(name) {
		return Fail("username", "Username can only contain letters, numbers, and underscores.")
	}
	return OK()
}

func email(addr string) Result {
	if !emailRegex.MatchString(NormalizeEmail(addr)) {
		return Fail("email", "Please provide a valid email address.")
	}
	return OK()
}

func LoginCredentials(emailAddr, password string) Result {
	if strings.TrimSpace(emailAddr) == "" {
		return Fail("email", "Email is required.")
	}
	if password == "" {
		return Fail("password", "Password is required.")
	}
	if r := email(emailAddr); !r.Valid {
		return r
	}
	if r := passwordLength(password); !r.Valid {
		return r
	}
	return StrongPassword(strings.TrimSpace(password))
}

func SignUpCredentials(emailAddr, password, name string) Result {
	if strings.TrimSpace(name) == "" {
		return Fail("username", "Username is required.")
	}
	if strings.TrimSpace(emailAddr) == "" {
		return Fail("email", "Email is required.")
	}
	if password == "" {
		return Fail("password", "Password is required.")
	}
	if r := username(name); !r.Valid {
		return r
	}
	if r := email(emailAddr); !r.Valid {
		return r
	}
	if r := passwordLength(password); !r.Valid {
		return r
	}
	return StrongPassword(strings.TrimSpace(password))
}

// ProfileUpdate holds the optional fields of a profile edit. Nil or blank
// fields are left untouched and skipped by validation.
type ProfileUpdate struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	ImageURL *string `json:"imageURL"`
	Bio      *string `json:"bio"`
}

func (p ProfileUpdate) Validate() Result {
	if present(p.Username) {
		if r := username(*p.Username); !r.Valid {
			return r
		}
	}
	if present(p.Email) {
		if r := email(*p.Email); !r.Valid {
			return r
		}
	}
	if present(p.ImageURL) && !imageURLRegex.MatchString(strings.TrimSpace(*p.ImageURL)) {
		return Fail("imageURL", "Image URL must be a valid http(s) URL.")
	}
	if present(p.Bio) && length(*p.Bio) > maxBioLength {
		return Fail("bio", "Bio cannot exceed 500 characters.")
	}
	return OK()
}

func ChangePassword(current, password, confirm string) Result {
	if current == "" || password == "" || confirm == "" {
		return Fail("password", "Current password, new password, and confirm password are required.")
	}
	if password != confirm {
		return Fail("confirmPassword", "Passwords do not match.")
	}
	return StrongPassword(password)
}
