package user

import (
	"time"

	"github.com/veilcall/core/internal/models"
)

type RegisterDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"     binding:"required"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileDTO struct {
	Name     *string                `json:"name"`
	Profile  map[string]interface{} `json:"profile"`
	Settings map[string]interface{} `json:"settings"`
}

type UpdateSettingsDTO struct {
	Settings map[string]interface{} `json:"settings" binding:"required"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password"     binding:"required,min=8"`
}

// userSummary is the public slice of an account returned by register/login.
type userSummary struct {
	ID       string                 `json:"id"`
	Email    string                 `json:"email"`
	Name     string                 `json:"name"`
	Settings map[string]interface{} `json:"settings"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userSummary `json:"user"`
}

type profileResponse struct {
	ID        string                 `json:"id"`
	Email     string                 `json:"email"`
	Name      string                 `json:"name"`
	Profile   map[string]interface{} `json:"profile"`
	Settings  map[string]interface{} `json:"settings"`
	CreatedAt time.Time              `json:"created_at"`
	LastLogin time.Time              `json:"last_login"`
}

func toSummary(u *models.User) userSummary {
	return userSummary{ID: u.ID, Email: u.Email, Name: u.Name, Settings: u.Settings}
}

func toProfile(u *models.User) profileResponse {
	return profileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Profile:   u.Profile,
		Settings:  u.Settings,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
