package validation

import (
	"strings"

	"github.com/fracas-dev/fracas/internal/models"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
	Team      string `json:"team"`
}

// CleanRegistration is a validated registration ready to be persisted.
type CleanRegistration struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	TeamID    *uint
	IsStaff   bool
	IsAdmin   bool
}

// Register validates a registration request against the store. It returns
// either the cleaned data or a field→message map describing every failed
// check.
func Register(tx *gorm.DB, in RegisterInput) (CleanRegistration, map[string]string) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	password1 := strings.TrimSpace(in.Password1)
	password2 := strings.TrimSpace(in.Password2)
	teamName := strings.TrimSpace(in.Team)

	errs := make(map[string]string)

	if email == "" || exists(tx, "email = ?", email) {
		errs["email"] = "Email taken: choose another email."
	}

	if username == "" || exists(tx, "username = ?", username) {
		errs["username"] = "Username taken: choose another username."
	}

	if len(password1) < 8 {
		errs["password1"] = "Choose another password, min 8 characters."
	}

	if firstName == "" {
		errs["first_name"] = "First name is required."
	}

	if lastName == "" {
		errs["last_name"] = "Last name is required."
	}

	if password2 == "" || password1 != password2 {
		errs["password2"] = "Passwords must match."
	}

	if len(errs) > 0 {
		return CleanRegistration{}, errs
	}

	clean := CleanRegistration{
		Email:     email,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password1,
	}

	// Team resolution is a case-insensitive exact match. An unmatched or
	// empty team name silently resolves to no team rather than failing;
	// existing clients depend on this. A matched team forces the account
	// to non-privileged status.
	if teamName != "" {
		var team models.Team
		err := tx.Where("LOWER(name) = ?", strings.ToLower(teamName)).First(&team).Error
		if err == nil {
			clean.TeamID = &team.ID
			clean.IsStaff = false
			clean.IsAdmin = false
		}
	}

	return clean, nil
}

func exists(tx *gorm.DB, query string, args ...interface{}) bool {
	var count int64
	tx.Model(&models.User{}).Where(query, args...).Count(&count)
	return count > 0
}
