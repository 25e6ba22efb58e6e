package registry

import (
	"context"
	"net/url"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
)

// ListMembers fetches the full member list.
func (c *Client) ListMembers(ctx context.Context) ([]domain.Member, error) {
	var members []domain.Member
	if err := c.getJSON(ctx, "/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// SearchMembers runs a free-text search over the registry.
func (c *Client) SearchMembers(ctx context.Context, query string) ([]domain.Member, error) {
	q := url.Values{}
	q.Set("q", query)
	var members []domain.Member
	if err := c.getJSON(ctx, "/members/search", q, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// GetMember fetches a single member record.
func (c *Client) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	var member domain.Member
	if err := c.getJSON(ctx, "/members/"+url.PathEscape(id), nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// CreateMember registers a paper-form member. Duplicate idNumber/email/
// username conflicts surface as an *APIError with the registry's message.
func (c *Client) CreateMember(ctx context.Context, member *domain.Member) error {
	return c.postJSON(ctx, "/members/paper", member, nil, resourceCall)
}

// UpdateMember replaces a member record.
func (c *Client) UpdateMember(ctx context.Context, id string, member *domain.Member) error {
	return c.putJSON(ctx, "/members/update/"+url.PathEscape(id), member, nil, resourceCall)
}

// DeleteMember soft-deletes a member. The registry models this as a PUT.
func (c *Client) DeleteMember(ctx context.Context, id string) error {
	return c.putJSON(ctx, "/members/delete/"+url.PathEscape(id), nil, nil, resourceCall)
}
