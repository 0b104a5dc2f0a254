package user

import (
	"strings"

	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
)

// Public is the user profile without credentials, safe to embed in any response.
type Public struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

func FromDataModel(u *datamodel.UserProfile) *Public {
	if u == nil {
		return nil
	}
	return &Public{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}

// NameParts holds the components a full name is built from.
type NameParts struct {
	FirstName  string
	LastName   string
	SecondName *string
}

// JoinName builds "first last [second]" with single spaces.
func JoinName(p NameParts) string {
	parts := []string{strings.TrimSpace(p.FirstName), strings.TrimSpace(p.LastName)}
	if p.SecondName != nil && strings.TrimSpace(*p.SecondName) != "" {
		parts = append(parts, strings.TrimSpace(*p.SecondName))
	}
	nonEmpty := parts[:0]
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// SplitName splits a full name on whitespace. The third token, if any, is the second name.
func SplitName(fullName string) NameParts {
	fields := strings.Fields(fullName)
	var p NameParts
	if len(fields) > 0 {
		p.FirstName = fields[0]
	}
	if len(fields) > 1 {
		p.LastName = fields[1]
	}
	if len(fields) > 2 {
		second := strings.Join(fields[2:], " ")
		p.SecondName = &second
	}
	return p
}

// PartsOf returns the stored name parts, falling back to splitting the full name.
func PartsOf(u *datamodel.UserProfile) NameParts {
	if u.FirstName != "" || u.LastName != "" {
		return NameParts{FirstName: u.FirstName, LastName: u.LastName, SecondName: u.SecondName}
	}
	return SplitName(u.FullName)
}
