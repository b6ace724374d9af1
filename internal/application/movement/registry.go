package movement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/graoagrao-estoque/internal/domain"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
	"github.com/rs/zerolog"
)

// Registry sesiones de edición vivas, indexadas por id. Solo memoria: un borrador
// que nadie envía se descarta al cerrarse la sesión o al vencer por inactividad.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	gateway Gateway
	log     zerolog.Logger
	now     func() time.Time
}

// NewRegistry construye el registro de sesiones.
func NewRegistry(gateway Gateway, log zerolog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		gateway:  gateway,
		log:      log.With().Str("component", "drafts").Logger(),
		now:      time.Now,
	}
}

// SetClock reemplaza el reloj (tests).
func (r *Registry) SetClock(now func() time.Time) { r.now = now }

// Create abre una sesión con un borrador vacío del tipo indicado, atada al
// token, usuario y tienda de creds.
func (r *Registry) Create(creds Credentials, kind entity.MovementKind) (*Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
	}
	return r.add(creds, NewEditor(kind)), nil
}

// Open trae un movimiento guardado del servidor y abre una sesión para editarlo.
func (r *Registry) Open(ctx context.Context, creds Credentials, kind entity.MovementKind, id int64) (*Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
	}
	m, err := r.gateway.Get(ctx, creds, kind, id)
	if err != nil {
		return nil, err
	}
	return r.add(creds, NewEditorFrom(m)), nil
}

// Get devuelve la sesión si existe y fue abierta con el mismo token y tienda.
// Cualquier otra combinación se comporta como una sesión inexistente.
func (r *Registry) Get(creds Credentials, id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || !s.ownedBy(creds) {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Discard descarta la sesión (navegación fuera sin enviar).
func (r *Registry) Discard(creds Credentials, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || !s.ownedBy(creds) {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	r.log.Debug().Str("session_id", id).Msg("borrador descartado")
	return nil
}

// EvictIdle descarta las sesiones sin actividad durante maxIdle y devuelve cuántas.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.IdleSince().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Len cantidad de sesiones vivas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) add(creds Credentials, editor *Editor) *Session {
	id := uuid.New().String()
	s := newSession(id, creds, editor, r.gateway, r.log, r.now)
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	r.log.Debug().Str("session_id", id).Str("kind", string(editor.Kind())).Int64("store_id", creds.StoreID).Msg("borrador abierto")
	return s
}
