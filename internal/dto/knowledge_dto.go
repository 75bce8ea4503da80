package dto

import "time"

type AddTextKnowledgeRequest struct {
	Content string `json:"content" validate:"required"`
	Title   string `json:"title"`
}

type AddURLKnowledgeRequest struct {
	URL   string `json:"url" validate:"required,url"`
	Title string `json:"title"`
}

// PropertyListingRequest carries the raw form values. Numeric fields arrive
// as strings and are coerced during normalization; PhotoURLs is a single
// comma-separated field.
type PropertyListingRequest struct {
	Address        string `json:"address" validate:"required"`
	Price          string `json:"price" validate:"required"`
	Bedrooms       string `json:"bedrooms"`
	Bathrooms      string `json:"bathrooms"`
	SquareFootage  string `json:"square_footage"`
	Description    string `json:"description" validate:"required"`
	VirtualTourURL string `json:"virtual_tour_url" validate:"omitempty,url"`
	PhotoURLs      string `json:"photo_urls"`
}

// PropertyListingDocument is the canonical JSON document submitted to the
// knowledge base as a text item. Parsing the submitted text back must
// reproduce these values exactly.
type PropertyListingDocument struct {
	Address        string   `json:"address"`
	Price          float64  `json:"price"`
	Bedrooms       int      `json:"bedrooms,omitempty"`
	Bathrooms      float64  `json:"bathrooms,omitempty"`
	SquareFootage  int      `json:"squareFootage,omitempty"`
	Description    string   `json:"description"`
	VirtualTourURL string   `json:"virtualTourUrl,omitempty"`
	PhotoURLs      []string `json:"photoUrls,omitempty"`
}

type KnowledgeItemResponse struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	Status    string `json:"status"`
	Terminal  bool   `json:"terminal"`
	Failed    bool   `json:"failed"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// KnowledgeSnapshotResponse is the tracker's cached view plus whether a poll
// is currently scheduled for this replica.
type KnowledgeSnapshotResponse struct {
	Items       []KnowledgeItemResponse `json:"items"`
	Polling     bool                    `json:"polling"`
	RefreshedAt *time.Time              `json:"refreshed_at,omitempty"`
}

type SubmissionAcceptedResponse struct {
	ItemID int64  `json:"item_id,omitempty"`
	Kind   string `json:"kind"`
	Title  string `json:"title,omitempty"`
}

// KnowledgeSubmittedMessage is the payload on the in-process invalidation
// topic.
type KnowledgeSubmittedMessage struct {
	ReplicaID string `json:"replica_id"`
}
