package usecase

type RegisterInput struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required"`
	LastName  string `json:"lastName" form:"lastName" validate:"required"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required,strongpassword"`
}

type RegisterOutput struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginOutput is one of two shapes: a completed login carrying User and
// Session, or a two-factor challenge carrying only TempToken.
type LoginOutput struct {
	RequiresTwoFactor bool        `json:"requiresTwoFactor,omitempty"`
	TempToken         string      `json:"tempToken,omitempty"`
	User              UserInfo    `json:"user"`
	Session           SessionInfo `json:"session"`
	Message           string      `json:"message,omitempty"`
}

type TwoFactorVerifyInput struct {
	Code      string `json:"code" form:"code" validate:"required,len=6,numeric"`
	TempToken string `json:"tempToken" form:"tempToken" validate:"required"`
}

type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type SessionInfo struct {
	Token     string `json:"token,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

type LogoutOutput struct {
	Message string `json:"message"`
}

type TwoFactorSetupOutput struct {
	Secret     string `json:"secret"`
	OtpauthURI string `json:"otpauthUri"`
	// QRCodePNG is base64 so clients can inline it as a data URI.
	QRCodePNG string `json:"qrCodePng"`
}

type TwoFactorEnableInput struct {
	Code string `json:"code" form:"code" validate:"required,len=6,numeric"`
}

type MessageOutput struct {
	Message string `json:"message"`
}
