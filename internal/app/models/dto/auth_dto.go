package dto

import "github.com/yigit/edusponsor/internal/app/models"

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string      `json:"name" example:"Jane Doe"`
	Age      FlexString  `json:"age" swaggertype:"string" example:"34"`
	Email    string      `json:"email" example:"jane@example.org"`
	Password string      `json:"password" example:"s3cret"`
	Role     models.Role `json:"role" example:"Sponsor" enums:"Admin,School,Sponsor,Student"`
}

// MissingFields reports whether a required registration field is empty
func (r RegisterRequest) MissingFields() bool {
	return blank(r.Name, r.Age.String(), r.Email, r.Password)
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" example:"jane@example.org"`
	Password string `json:"password" example:"s3cret"`
}

// MissingFields reports whether email or password is empty
func (r LoginRequest) MissingFields() bool {
	return blank(r.Email, r.Password)
}

// AuthResponse is returned on registration
type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// LoginResponse is returned on login
type LoginResponse struct {
	Token    string              `json:"token"`
	UserID   string              `json:"userId"`
	UserData models.UserSnapshot `json:"userdata"`
}
