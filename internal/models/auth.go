package models

type AuthRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name,omitempty"`    // signup only
	OTPCode  string `json:"otpCode,omitempty"` // login with 2FA enabled
}

type AuthResponse struct {
	Token        string   `json:"token,omitempty"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	ExpiresIn    int64    `json:"expiresIn,omitempty"`
	User         *User    `json:"user,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	Permissions  []string `json:"permissions,omitempty"`
	Requires2FA  bool     `json:"requires2FA,omitempty"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ConfirmPasswordResetRequest struct {
	Email       string `json:"email" binding:"required"`
	OTPCode     string `json:"otpCode" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

type Verify2FARequest struct {
	Code string `json:"code" binding:"required"`
}
