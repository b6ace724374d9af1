package graoapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/application/movement"
	"github.com/jhoicas/graoagrao-estoque/internal/domain"
	"github.com/jhoicas/graoagrao-estoque/pkg/config"
)

// Client cliente REST de la API de inventario Grão a Grão. Reenvía el token del
// usuario en cada solicitud; no guarda credenciales propias.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// NewClient construye el cliente con la URL base y el timeout configurados.
func NewClient(cfg config.UpstreamConfig, log zerolog.Logger) *Client {
	c := &Client{log: log.With().Str("component", "graoapi").Logger()}

	c.http = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout()).
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			c.log.Debug().
				Str("method", resp.Request.Method).
				Str("path", resp.Request.URL).
				Int("status", resp.StatusCode()).
				Dur("elapsed", resp.Time()).
				Msg("solicitud a la api de inventario")
			return nil
		})

	return c
}

// do ejecuta la solicitud y traduce los errores. result puede ser nil.
func (c *Client) do(ctx context.Context, creds movement.Credentials, method, path string, body, result any) (*resty.Response, error) {
	apiErr := new(dto.UpstreamErrorEnvelope)

	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(creds.Token).
		SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).
			Dur("elapsed", time.Since(start)).Msg("api de inventario inaccesible")
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrUpstreamUnavailable, method, path, err)
	}

	if resp.IsError() {
		serr := &ServerError{
			Status:  resp.StatusCode(),
			Code:    ParseInternalCode(apiErr.InternalCode),
			Message: apiErr.Message,
		}
		c.log.Info().Int("status", serr.Status).Str("internal_code", string(serr.Code)).
			Str("path", path).Msg("api de inventario rechazó la solicitud")
		return nil, serr
	}
	return resp, nil
}

func storePath(creds movement.Credentials, format string, args ...any) string {
	return fmt.Sprintf("/stores/%d", creds.StoreID) + fmt.Sprintf(format, args...)
}
