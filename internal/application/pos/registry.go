package pos

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/pkg/metrics"
)

// SessionRegistry guarda las sesiones de caja en memoria y expulsa las inactivas.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
	metrics  *metrics.POSMetrics
	log      zerolog.Logger
}

// NewSessionRegistry construye el registro. idle <= 0 desactiva la expulsión.
func NewSessionRegistry(idle time.Duration, m *metrics.POSMetrics, log zerolog.Logger) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		idle:     idle,
		now:      time.Now,
		metrics:  m,
		log:      log,
	}
}

// Open crea una sesión nueva para el cajero.
func (r *SessionRegistry) Open(companyID, userID string) *Session {
	s := newSession(uuid.New().String(), companyID, userID, r.now())
	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()
	r.metrics.SetOpenSessions(n)
	return s
}

// Get devuelve la sesión si existe y pertenece a la empresa.
func (r *SessionRegistry) Get(companyID, id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || s.CompanyID != companyID {
		return nil, false
	}
	return s, true
}

// Close elimina la sesión. Devuelve false si no existía.
func (r *SessionRegistry) Close(companyID, id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok && s.CompanyID == companyID {
		delete(r.sessions, id)
	}
	n := len(r.sessions)
	r.mu.Unlock()
	r.metrics.SetOpenSessions(n)
	return ok && s.CompanyID == companyID
}

// Len número de sesiones abiertas.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle elimina las sesiones sin actividad en el último intervalo idle y devuelve cuántas.
// El registro solo se bloquea para copiar y para borrar; la inactividad se evalúa sin él.
func (r *SessionRegistry) EvictIdle() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)

	r.mu.RLock()
	snapshot := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.RUnlock()

	idle := make([]*Session, 0)
	for _, s := range snapshot {
		if s.idleSince(cutoff) {
			idle = append(idle, s)
		}
	}
	if len(idle) == 0 {
		return 0
	}

	r.mu.Lock()
	evicted := 0
	for _, s := range idle {
		if cur, ok := r.sessions[s.ID]; ok && cur == s {
			delete(r.sessions, s.ID)
			evicted++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetOpenSessions(n)
	return evicted
}

// Run ejecuta la expulsión periódica hasta que ctx se cancele.
func (r *SessionRegistry) Run(ctx context.Context, every time.Duration) {
	if r.idle <= 0 || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(); n > 0 {
				r.log.Info().Int("evicted", n).Msg("sesiones de caja inactivas cerradas")
			}
		}
	}
}
