package sensay

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

type knowledgeCollection struct {
	Items []KnowledgeItem `json:"items"`
}

func knowledgeBasePath(replicaID string) string {
	return fmt.Sprintf("/replicas/%s/knowledge-base", replicaID)
}

// ListKnowledgeBase re-fetches the full knowledge collection for a replica.
// There is no delta protocol; the returned slice always replaces the caller's
// snapshot wholesale.
func (c *Client) ListKnowledgeBase(ctx context.Context, replicaID string) ([]KnowledgeItem, error) {
	var collection knowledgeCollection
	if err := c.doJSON(ctx, "GET", knowledgeBasePath(replicaID), adminScoped, nil, &collection); err != nil {
		return nil, err
	}
	return collection.Items, nil
}

type addTextPayload struct {
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
}

// AddTextKnowledge submits raw text for ingestion. Success only means the
// item was accepted for processing, never that it is ready.
func (c *Client) AddTextKnowledge(ctx context.Context, replicaID, text, title string) (*KnowledgeItem, error) {
	var item KnowledgeItem
	payload := addTextPayload{Text: text, Title: title}
	if err := c.doJSON(ctx, "POST", knowledgeBasePath(replicaID), adminScoped, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

type addURLPayload struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// AddURLKnowledge submits a remote URL (including video-hosting URLs); the
// remote pipeline fetches and extracts the content itself.
func (c *Client) AddURLKnowledge(ctx context.Context, replicaID, url, title string) (*KnowledgeItem, error) {
	var item KnowledgeItem
	payload := addURLPayload{URL: url, Title: title}
	if err := c.doJSON(ctx, "POST", knowledgeBasePath(replicaID), adminScoped, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

type requestUploadPayload struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

type signedUploadResponse struct {
	Results []struct {
		SignedURL string `json:"signedURL"`
	} `json:"results"`
}

// RequestFileUpload negotiates a signed upload target for a file. A success
// response without a signed URL is ErrNoSignedURL; callers must not attempt
// the byte transfer in that case.
func (c *Client) RequestFileUpload(ctx context.Context, replicaID, filename, title string) (string, error) {
	var response signedUploadResponse
	payload := requestUploadPayload{Filename: filename, Title: title}
	if err := c.doJSON(ctx, "POST", knowledgeBasePath(replicaID), adminScoped, payload, &response); err != nil {
		return "", err
	}
	if len(response.Results) == 0 || response.Results[0].SignedURL == "" {
		return "", ErrNoSignedURL
	}
	return response.Results[0].SignedURL, nil
}

// UploadToSignedURL PUTs the raw file bytes directly to the pre-authorized
// storage target. This is a separate error site from the negotiation above.
func (c *Client) UploadToSignedURL(ctx context.Context, signedURL, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, "PUT", signedURL, body)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("file upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: string(data)}
	}
	return nil
}

// DeleteKnowledgeItem removes one entry from the replica's knowledge base.
func (c *Client) DeleteKnowledgeItem(ctx context.Context, replicaID string, itemID int64) error {
	path := fmt.Sprintf("%s/%d", knowledgeBasePath(replicaID), itemID)
	return c.doJSON(ctx, "DELETE", path, adminScoped, nil, nil)
}
