package sensay

import (
	"context"
	"fmt"
)

type replicaCollection struct {
	Items []Replica `json:"items"`
}

// ListReplicas fetches every replica owned by the organization.
func (c *Client) ListReplicas(ctx context.Context) ([]Replica, error) {
	var collection replicaCollection
	if err := c.doJSON(ctx, "GET", "/replicas", adminScoped, nil, &collection); err != nil {
		return nil, err
	}
	return collection.Items, nil
}

// GetReplica fetches a single replica by id.
func (c *Client) GetReplica(ctx context.Context, id string) (*Replica, error) {
	var replica Replica
	if err := c.doJSON(ctx, "GET", "/replicas/"+id, adminScoped, nil, &replica); err != nil {
		return nil, err
	}
	return &replica, nil
}

// CreateReplica provisions a new agent. A duplicate slug comes back as
// ErrSlugTaken so the caller can attach it to the slug field.
func (c *Client) CreateReplica(ctx context.Context, input CreateReplicaInput) (*Replica, error) {
	var replica Replica
	if err := c.doJSON(ctx, "POST", "/replicas", adminScoped, input, &replica); err != nil {
		return nil, err
	}
	return &replica, nil
}

// SendChatMessage issues one user-scoped chat completion. One request, one
// response; no streaming, no retry.
func (c *Client) SendChatMessage(ctx context.Context, replicaID, content string) (string, error) {
	payload := map[string]string{"content": content}
	var response struct {
		Content string `json:"content"`
	}
	path := fmt.Sprintf("/replicas/%s/chat/completions", replicaID)
	if err := c.doJSON(ctx, "POST", path, userScoped, payload, &response); err != nil {
		return "", err
	}
	return response.Content, nil
}
