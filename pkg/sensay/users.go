package sensay

import "context"

// CreateUser registers the acting user identity with the platform. The remote
// treats repeated creation of the same id as idempotent by convention.
func (c *Client) CreateUser(ctx context.Context, id string) (*User, error) {
	var user User
	err := c.doJSON(ctx, "POST", "/users", adminScoped, User{ID: id}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
