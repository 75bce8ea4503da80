package sensay

// Replica is a hosted conversational agent identity. It is owned by the
// organization account and never mutated locally; we only re-fetch it.
type Replica struct {
	UUID             string `json:"uuid"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	ShortDescription string `json:"short_description"`
	Introduction     string `json:"introduction"` // greeting message
	ProfileImage     string `json:"profile_image,omitempty"`
}

// KnowledgeItem is a unit of ingested content bound to one replica. The id is
// assigned remotely. Raw content is not carried here: once a submission is
// accepted, the content lives only in the remote system.
type KnowledgeItem struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"` // "text", "file", "website", "youtube"
	Status    Status `json:"status"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// LLMSpec selects the model backing a new replica.
type LLMSpec struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// CreateReplicaInput is the management-side creation contract.
type CreateReplicaInput struct {
	Name             string  `json:"name"`
	ShortDescription string  `json:"shortDescription"`
	Greeting         string  `json:"greeting"`
	Slug             string  `json:"slug"`
	ProfileImage     string  `json:"profileImage,omitempty"`
	OwnerID          string  `json:"ownerID"`
	LLM              LLMSpec `json:"llm"`
}

// User is the acting identity under which chat requests are issued.
type User struct {
	ID string `json:"id"`
}
