package models

// AdminLoginRequest represents the admin login payload
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse represents the response after successful admin login
type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
	Username    string `json:"username"`
}

// ReloadResponse reports the dataset after an admin reload
type ReloadResponse struct {
	Status string       `json:"status"`
	Stats  DatasetStats `json:"stats"`
}
