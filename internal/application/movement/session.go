package movement

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/graoagrao-estoque/internal/domain"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
	"github.com/jhoicas/graoagrao-estoque/pkg/jwt"
	"github.com/rs/zerolog"
)

// State estado de una sesión de edición.
type State string

const (
	StateEditing          State = "editing"
	StateSubmitting       State = "submitting"
	StateSaved            State = "saved"
	StateValidationFailed State = "validation_failed"
	StateServerRejected   State = "server_rejected"
	StateFinalized        State = "finalized"
)

// Session una edición en memoria de un borrador: editor + máquina de estados + envío.
// Es segura para uso concurrente; durante un envío rechaza ediciones y otros envíos.
// Queda atada al token y a la tienda con que se abrió.
type Session struct {
	ID      string
	Owner   string
	StoreID int64

	tokenKey string

	mu        sync.Mutex
	editor    *Editor
	state     State
	lastErr   error
	dirty     bool
	touchedAt time.Time

	gateway Gateway
	log     zerolog.Logger
	now     func() time.Time
}

func newSession(id string, creds Credentials, editor *Editor, gateway Gateway, log zerolog.Logger, now func() time.Time) *Session {
	s := &Session{
		ID:        id,
		Owner:     creds.Subject,
		StoreID:   creds.StoreID,
		tokenKey:  jwt.Fingerprint(creds.Token),
		editor:    editor,
		state:     StateEditing,
		gateway:   gateway,
		log:       log.With().Str("session_id", id).Logger(),
		now:       now,
		touchedAt: now(),
	}
	if editor.draft.IsFinalized() {
		s.state = StateFinalized
	}
	return s
}

// ownedBy indica si creds corresponde al mismo token, usuario y tienda de la sesión.
func (s *Session) ownedBy(creds Credentials) bool {
	return s.Owner == creds.Subject &&
		s.StoreID == creds.StoreID &&
		s.tokenKey == jwt.Fingerprint(creds.Token)
}

// pinned reenvía siempre la tienda de la sesión, no la de la petición.
func (s *Session) pinned(creds Credentials) Credentials {
	creds.StoreID = s.StoreID
	return creds
}

// Snapshot estado observable de la sesión.
type Snapshot struct {
	ID      string
	Kind    entity.MovementKind
	State   State
	Draft   *entity.StockMovement
	LastErr error
	Dirty   bool
}

// Snapshot devuelve una copia consistente del estado actual.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:      s.ID,
		Kind:    s.editor.Kind(),
		State:   s.state,
		Draft:   s.editor.Draft(),
		LastErr: s.lastErr,
		Dirty:   s.dirty,
	}
}

// Edit aplica una mutación del editor. Tras un fallo de envío o un guardado,
// cualquier edición devuelve la sesión a editing.
func (s *Session) Edit(fn func(e *Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = s.now()
	switch s.state {
	case StateSubmitting:
		return domain.ErrSubmissionInFlight
	case StateFinalized:
		return domain.ErrMovementFinalized
	}
	if err := fn(s.editor); err != nil {
		return err
	}
	s.state = StateEditing
	s.lastErr = nil
	s.dirty = true
	return nil
}

// Reset descarta los cambios y deja una única línea vacía. Un movimiento ya
// guardado conserva su id: el próximo envío lo actualiza.
func (s *Session) Reset() error {
	return s.Edit(func(e *Editor) error {
		e.Reset()
		return nil
	})
}

// Submit valida el borrador y lo crea (sin id) o actualiza (con id) en el servidor.
// En caso de error el borrador queda intacto y el error queda en LastErr.
func (s *Session) Submit(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	if err := s.beginLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	draft := s.editor.Draft()
	s.mu.Unlock()
	creds = s.pinned(creds)

	var (
		saved *entity.StockMovement
		err   error
	)
	if draft.ID == 0 {
		req, buildErr := BuildCreateRequest(draft)
		if buildErr != nil {
			return s.finish(nil, buildErr, StateValidationFailed)
		}
		saved, err = s.gateway.Create(ctx, creds, draft.Kind, req)
	} else {
		req, buildErr := BuildUpdateRequest(draft)
		if buildErr != nil {
			return s.finish(nil, buildErr, StateValidationFailed)
		}
		saved, err = s.gateway.Update(ctx, creds, draft.Kind, req)
	}
	if err != nil {
		return s.finish(nil, err, StateServerRejected)
	}
	return s.finish(saved, nil, StateSaved)
}

// Finalize pide al servidor el cierre del movimiento guardado. Exige que no haya
// cambios pendientes de guardar.
func (s *Session) Finalize(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	if err := s.beginLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	draft := s.editor.Draft()
	dirty := s.dirty
	s.mu.Unlock()
	creds = s.pinned(creds)

	if draft.ID == 0 {
		return s.finish(nil, domain.ErrMissingMovementID, StateValidationFailed)
	}
	if dirty {
		return s.finish(nil, domain.ErrUnsavedChanges, StateValidationFailed)
	}
	finalized, err := s.gateway.Finalize(ctx, creds, draft.Kind, draft.ID)
	if err != nil {
		return s.finish(nil, err, StateServerRejected)
	}
	if finalized.Status != entity.MovementStatusFinalized {
		finalized.Status = entity.MovementStatusFinalized
	}
	return s.finish(finalized, nil, StateFinalized)
}

// IdleSince momento de la última interacción.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

func (s *Session) beginLocked() error {
	s.touchedAt = s.now()
	switch s.state {
	case StateSubmitting:
		return domain.ErrSubmissionInFlight
	case StateFinalized:
		return domain.ErrMovementFinalized
	}
	s.state = StateSubmitting
	return nil
}

// finish cierra el envío: reemplaza el borrador si hubo respuesta y fija el estado.
func (s *Session) finish(result *entity.StockMovement, err error, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.lastErr = err
	if result != nil {
		s.editor.ReplaceDraft(result)
		s.dirty = false
	}

	var ev *zerolog.Event
	if err != nil {
		ev = s.log.Warn().Err(err)
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			ev = ev.Int("line", verr.Line).Int("packaging", verr.Packaging)
		}
	} else {
		ev = s.log.Info()
	}
	ev.Str("state", string(state)).Str("kind", string(s.editor.Kind())).Msg("envío de movimiento")
	return err
}
