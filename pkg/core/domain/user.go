package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidUsername    = errors.New("username must be 3-150 characters of letters, digits, '.', '-' or '_'")
	ErrReservedUsername   = errors.New("username is reserved")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 150
	MinPasswordLength = 6
)

// Les usernames apparaissent en premier segment d'URL (/{username}/relationship),
// ils ne doivent pas masquer les routes statiques.
var reservedUsernames = map[string]struct{}{
	"api": {}, "posts": {}, "profile": {}, "friends": {}, "notifs": {}, "users": {},
	"register": {}, "login": {}, "logout": {}, "token": {}, "healthz": {}, "metrics": {},
}

// --- ENTITÉ ---

// User est identifié par son username (clé immuable).
type User struct {
	Username     string
	DisplayName  string
	FirstName    string
	LastName     string
	Email        string
	ProfileImage string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser est le seul moyen de créer un user valide.
func NewUser(username, email, passwordHash, firstName, lastName string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &User{
		Username:     username,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u.DisplayName = u.defaultDisplayName()
	return u, nil
}

// ValidateUsername vérifie le format d'un username (hors unicité).
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return ErrInvalidUsername
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '_':
		default:
			return ErrInvalidUsername
		}
	}
	if _, ok := reservedUsernames[strings.ToLower(username)]; ok {
		return ErrReservedUsername
	}
	return nil
}

// ValidatePassword applique la longueur minimale.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// --- COMPORTEMENTS ---

// UpdateProfile change les champs non-critiques (nil = pas de changement).
func (u *User) UpdateProfile(displayName, email, profileImage *string) error {
	if email != nil {
		if err := validateEmail(*email); err != nil {
			return err
		}
		u.Email = strings.ToLower(strings.TrimSpace(*email))
	}
	if displayName != nil {
		u.DisplayName = strings.TrimSpace(*displayName)
		if u.DisplayName == "" {
			u.DisplayName = u.defaultDisplayName()
		}
	}
	if profileImage != nil {
		u.ProfileImage = strings.TrimSpace(*profileImage)
	}
	u.touch()
	return nil
}

func (u *User) defaultDisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
