package model

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest defines the payload for creating a new account.
// New accounts always start in pending status regardless of the payload.
type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstname" validate:"required"`
	Surname   string `json:"surname" validate:"required"`
	Position  string `json:"position" validate:"required"`
}

// UpdateUserStatusRequest is the admin payload for account approval and the
// rest of the account lifecycle.
type UpdateUserStatusRequest struct {
	UserID int    `json:"user_id" validate:"required"`
	Status Status `json:"status" validate:"required,oneof=pending approved rejected suspended inactive"`
}

// UpdateUserRoleRequest is the admin payload for changing a user's role.
type UpdateUserRoleRequest struct {
	UserID int  `json:"user_id" validate:"required"`
	Role   Role `json:"role" validate:"required,oneof=user admin"`
}

// UpdateProfileRequest carries the fields a user may edit on their own
// profile. Identity comes from the verified claim, never from the payload.
type UpdateProfileRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstname" validate:"required"`
	Surname   string `json:"surname" validate:"required"`
	Position  string `json:"position" validate:"required"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// ContractRequest defines the payload for creating or updating a contract.
type ContractRequest struct {
	Recorder       string  `json:"recorder" validate:"required"`
	DivisionID     int     `json:"division_id" validate:"required"`
	ProjectName    string  `json:"project_name" validate:"required"`
	WayType        string  `json:"way_type" validate:"required"`
	FundSource     string  `json:"fund_source" validate:"required"`
	Budget         float64 `json:"budget" validate:"gte=0"`
	ContractBudget float64 `json:"contract_budget" validate:"gte=0"`
	PartnerName    string  `json:"partner_name" validate:"required"`
	DepositType    string  `json:"deposit_type"`
	DepositAmount  float64 `json:"deposit_amount" validate:"gte=0"`
	EndDate        string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Warranty       string  `json:"warranty"`
}

// LoginResponse is returned on successful authentication. The same token is
// also set as the session cookie.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}
