package models

import "time"

// Access Token Response
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	UserID      string    `json:"user_id"`
	Role        Role      `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
}
