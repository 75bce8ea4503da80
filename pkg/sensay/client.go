package sensay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// API is the remote platform surface the services depend on. Client is the
// real implementation; tests inject fakes.
type API interface {
	CreateUser(ctx context.Context, id string) (*User, error)
	ListReplicas(ctx context.Context) ([]Replica, error)
	GetReplica(ctx context.Context, id string) (*Replica, error)
	CreateReplica(ctx context.Context, input CreateReplicaInput) (*Replica, error)
	SendChatMessage(ctx context.Context, replicaID, content string) (string, error)
	ListKnowledgeBase(ctx context.Context, replicaID string) ([]KnowledgeItem, error)
	AddTextKnowledge(ctx context.Context, replicaID, text, title string) (*KnowledgeItem, error)
	AddURLKnowledge(ctx context.Context, replicaID, url, title string) (*KnowledgeItem, error)
	RequestFileUpload(ctx context.Context, replicaID, filename, title string) (string, error)
	UploadToSignedURL(ctx context.Context, signedURL, contentType string, body io.Reader) error
	DeleteKnowledgeItem(ctx context.Context, replicaID string, itemID int64) error
}

// Config carries the credential/session state for one client instance. It is
// passed in explicitly so tests and re-configuration never touch process-wide
// storage; swapping credentials means building a new Client.
type Config struct {
	BaseURL            string
	APIVersion         string
	OrganizationSecret string
	UserID             string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

var _ API = &Client{}

// NewClient validates the credential precondition up front: an absent
// organization secret fails here, never at the network call.
func NewClient(cfg Config) (*Client, error) {
	if cfg.OrganizationSecret == "" {
		return nil, ErrMissingSecret
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// adminHeaders authorizes management operations: organization secret only.
func (c *Client) adminHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Version", c.cfg.APIVersion)
	req.Header.Set("X-ORGANIZATION-SECRET", c.cfg.OrganizationSecret)
}

// userHeaders authorizes user-scoped operations (chat): admin headers plus
// the acting user id.
func (c *Client) userHeaders(req *http.Request) error {
	if c.cfg.UserID == "" {
		return ErrMissingUserID
	}
	c.adminHeaders(req)
	req.Header.Set("X-USER-ID", c.cfg.UserID)
	return nil
}

type scope int

const (
	adminScoped scope = iota
	userScoped
)

// doJSON issues one request against the platform API and decodes the success
// payload into out (when out is non-nil). Non-2xx responses come back as a
// typed error carrying the remote {message} body.
func (c *Client) doJSON(ctx context.Context, method, path string, sc scope, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if sc == userScoped {
		if err := c.userHeaders(req); err != nil {
			return err
		}
	} else {
		c.adminHeaders(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sensay request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// remoteError parses the {message} error envelope and promotes recognized
// message patterns to named conditions.
func (c *Client) remoteError(status int, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &envelope)

	if slugConflictRe.MatchString(envelope.Message) {
		return ErrSlugTaken
	}
	return &APIError{StatusCode: status, Message: envelope.Message}
}
