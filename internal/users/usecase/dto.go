package usecase

type UserSummary struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Role             string  `json:"role"`
	IsActive         bool    `json:"isActive"`
	TwoFactorEnabled bool    `json:"twoFactorEnabled"`
	LastLoginAt      *string `json:"lastLoginAt"`
}

type ListUsersInput struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

type UpdateRoleInput struct {
	Role string `json:"role" form:"role" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" form:"newPassword" validate:"required,strongpassword"`
}

type MessageOutput struct {
	Message string `json:"message"`
}
