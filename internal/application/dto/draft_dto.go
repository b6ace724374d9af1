package dto

import "encoding/json"

// CreateDraftRequest body para POST /api/drafts.
// Con MovementID se abre para edición un movimiento ya guardado.
type CreateDraftRequest struct {
	Kind       string `json:"kind"` // stock_in | stock_out
	MovementID int64  `json:"movement_id,omitempty"`
}

// SetFieldRequest body para PATCH de una línea o de un embalaje.
// Value: id numérico para "item" e "item_packaging", número para cantidades y precio.
type SetFieldRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// DraftResponse estado de una sesión de edición.
type DraftResponse struct {
	SessionID       string           `json:"session_id"`
	Kind            string           `json:"kind"`
	State           string           `json:"state"`
	Draft           MovementResponse `json:"draft"`
	UnbalancedLines []int            `json:"unbalanced_lines"`
	Error           *ErrorResponse   `json:"error,omitempty"`
}
