package dto

type UpdateCredentialsRequest struct {
	OrganizationSecret string `json:"organization_secret" validate:"required,min=8"`
}

type SettingsResponse struct {
	Configured bool   `json:"configured"`
	UserID     string `json:"user_id,omitempty"`
}
