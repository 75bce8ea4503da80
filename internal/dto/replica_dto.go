package dto

type CreateReplicaRequest struct {
	Name             string `json:"name" validate:"required,min=2"`
	ShortDescription string `json:"short_description" validate:"required,min=10"`
	Greeting         string `json:"greeting" validate:"required,min=10"`
	Slug             string `json:"slug" validate:"required,min=3,slug"`
	ProfileImage     string `json:"profile_image" validate:"omitempty,url"`
}

type ReplicaResponse struct {
	UUID             string `json:"uuid"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	ShortDescription string `json:"short_description"`
	Greeting         string `json:"greeting"`
	ProfileImage     string `json:"profile_image,omitempty"`
}

// CreateReplicaResponse distinguishes "created and seeded" from "created but
// the behavior guide could not be added". The replica exists either way.
type CreateReplicaResponse struct {
	Replica   ReplicaResponse `json:"replica"`
	Seeded    bool            `json:"seeded"`
	SeedError string          `json:"seed_error,omitempty"`
}
