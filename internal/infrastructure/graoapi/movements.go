package graoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/application/movement"
	"github.com/jhoicas/graoagrao-estoque/internal/domain"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
)

// Implementa movement.Gateway.
var _ movement.Gateway = (*Client)(nil)

func resource(kind entity.MovementKind) (string, error) {
	switch kind {
	case entity.MovementKindIn:
		return "stock-ins", nil
	case entity.MovementKindOut:
		return "stock-outs", nil
	default:
		return "", fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
	}
}

// Create POST /stores/{store}/stock-ins|stock-outs.
func (c *Client) Create(ctx context.Context, creds movement.Credentials, kind entity.MovementKind, req *dto.CreateMovementRequest) (*entity.StockMovement, error) {
	res, err := resource(kind)
	if err != nil {
		return nil, err
	}
	out := new(dto.MovementResponse)
	if _, err := c.do(ctx, creds, http.MethodPost, storePath(creds, "/%s", res), req, out); err != nil {
		return nil, err
	}
	return movement.FromResponse(kind, out), nil
}

// Update PUT /stores/{store}/stock-ins|stock-outs/{id}.
func (c *Client) Update(ctx context.Context, creds movement.Credentials, kind entity.MovementKind, req *dto.UpdateMovementRequest) (*entity.StockMovement, error) {
	res, err := resource(kind)
	if err != nil {
		return nil, err
	}
	out := new(dto.MovementResponse)
	if _, err := c.do(ctx, creds, http.MethodPut, storePath(creds, "/%s/%d", res, req.ID), req, out); err != nil {
		return nil, err
	}
	return movement.FromResponse(kind, out), nil
}

// Get GET /stores/{store}/stock-ins|stock-outs/{id}.
func (c *Client) Get(ctx context.Context, creds movement.Credentials, kind entity.MovementKind, id int64) (*entity.StockMovement, error) {
	res, err := resource(kind)
	if err != nil {
		return nil, err
	}
	out := new(dto.MovementResponse)
	if _, err := c.do(ctx, creds, http.MethodGet, storePath(creds, "/%s/%d", res, id), nil, out); err != nil {
		return nil, err
	}
	return movement.FromResponse(kind, out), nil
}

// Finalize POST /stores/{store}/stock-ins|stock-outs/{id}/finalize. Si el
// servidor responde sin cuerpo se relee el movimiento.
func (c *Client) Finalize(ctx context.Context, creds movement.Credentials, kind entity.MovementKind, id int64) (*entity.StockMovement, error) {
	res, err := resource(kind)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, creds, http.MethodPost, storePath(creds, "/%s/%d/finalize", res, id), nil, nil)
	if err != nil {
		return nil, err
	}

	out := new(dto.MovementResponse)
	if body := resp.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("%w: respuesta de finalize inválida: %v", domain.ErrUpstreamUnavailable, err)
		}
	}
	if out.ID == 0 {
		return c.Get(ctx, creds, kind, id)
	}
	return movement.FromResponse(kind, out), nil
}
