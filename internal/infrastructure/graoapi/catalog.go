package graoapi

import (
	"context"
	"net/http"

	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/application/movement"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
)

var _ movement.Catalog = (*Client)(nil)

// GetItem GET /stores/{store}/items/{id}.
func (c *Client) GetItem(ctx context.Context, creds movement.Credentials, id int64) (*entity.Item, error) {
	out := new(dto.ItemResponse)
	if _, err := c.do(ctx, creds, http.MethodGet, storePath(creds, "/items/%d", id), nil, out); err != nil {
		return nil, err
	}
	item := movement.ItemFromResponse(*out)
	return &item, nil
}

// ListItemPackagings GET /stores/{store}/items/{id}/packagings.
func (c *Client) ListItemPackagings(ctx context.Context, creds movement.Credentials, itemID int64) ([]entity.ItemPackaging, error) {
	var out []dto.ItemPackagingResponse
	if _, err := c.do(ctx, creds, http.MethodGet, storePath(creds, "/items/%d/packagings", itemID), nil, &out); err != nil {
		return nil, err
	}
	list := make([]entity.ItemPackaging, 0, len(out))
	for _, p := range out {
		list = append(list, movement.PackagingFromResponse(p))
	}
	return list, nil
}
