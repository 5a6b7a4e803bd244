package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

const (
	revokeTimeout     = 5 * time.Second
	projectionTimeout = 2 * time.Second
)

// Option configura un Store.
type Option func(*Store)

// WithLogger inyecta el logger del componente.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithProjection persiste la proyección provisional bajo key.
func WithProjection(ps ProjectionStore, key string) Option {
	return func(s *Store) {
		s.proj = ps
		s.projKey = key
	}
}

type listener struct {
	id uint64
	fn func(entity.Session)
}

// Store caché de la Session de un cliente con suscripción a transiciones.
//
// Cada resolución (Initialize o evento del gateway) recibe una generación creciente
// y se encadena detrás de la anterior: nunca corren dos a la vez. Una resolución
// solo confirma su resultado si su generación sigue siendo la última pedida.
type Store struct {
	gw       Gateway
	resolver *Resolver
	log      zerolog.Logger
	proj     ProjectionStore
	projKey  string

	ctx    context.Context
	cancel context.CancelFunc
	unsub  func()

	mu          sync.Mutex
	current     entity.Session
	provisional *entity.Projection
	requested   uint64
	tail        chan struct{}
	signedOut   bool
	closed      bool

	listeners   []listener
	nextID      uint64
	queue       []entity.Session
	dispatching bool
}

// NewStore construye el store del cliente y se suscribe a los eventos del gateway.
func NewStore(gw Gateway, opts ...Option) *Store {
	s := &Store{
		gw:      gw,
		log:     zerolog.Nop(),
		current: entity.UninitializedSession(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = NewResolver(gw, s.log)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if s.proj != nil {
		ctx, cancel := context.WithTimeout(s.ctx, projectionTimeout)
		p, err := s.proj.Load(ctx, s.projKey)
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Msg("no se pudo leer la proyección de sesión")
		}
		s.provisional = p
	}

	s.unsub = gw.OnAuthStateChange(s.handleAuthEvent)
	return s
}

// Initialize dispara la resolución. No hace nada si ya hay una en curso.
func (s *Store) Initialize() {
	s.schedule(trigger{initialize: true})
}

// Current devuelve el último valor confirmado.
func (s *Store) Current() entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Provisional devuelve la proyección persistida mientras la sesión no se resolvió;
// después, la proyección del valor actual. Solo sirve para pintar UI.
func (s *Store) Provisional() *entity.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current.Resolved() {
		if s.provisional == nil {
			return nil
		}
		p := *s.provisional
		return &p
	}
	p := s.current.Project()
	return &p
}

// Subscribe registra fn para cada transición posterior, en orden.
func (s *Store) Subscribe(fn func(entity.Session)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Wait bloquea hasta que la sesión esté resuelta o ctx termine. Devuelve el valor
// actual en ambos casos; el error es el de ctx.
func (s *Store) Wait(ctx context.Context) (entity.Session, error) {
	ch := make(chan struct{}, 1)
	unsub := s.Subscribe(func(ss entity.Session) {
		if ss.Resolved() {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	})
	defer unsub()

	if cur := s.Current(); cur.Resolved() {
		return cur, nil
	}
	select {
	case <-ch:
		return s.Current(), nil
	case <-ctx.Done():
		return s.Current(), ctx.Err()
	}
}

// SignOut deja la sesión en Anonymous de inmediato y revoca en segundo plano.
// Si la revocación falla la sesión local sigue cerrada: solo se registra el error.
func (s *Store) SignOut() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.requested++
	s.signedOut = true
	start := s.enqueueLocked(entity.AnonymousSession(nil))
	s.mu.Unlock()

	if start {
		s.drain()
	}
	go s.revoke()
}

// Close desmonta el store: las resoluciones pendientes no confirman nada.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.requested++
	unsub := s.unsub
	s.mu.Unlock()

	s.cancel()
	if unsub != nil {
		unsub()
	}
}

func (s *Store) revoke() {
	ctx, cancel := context.WithTimeout(context.Background(), revokeTimeout)
	defer cancel()
	if err := s.gw.SignOut(ctx); err != nil {
		s.log.Warn().Err(err).Msg("revocación de sesión falló; la sesión local permanece cerrada")
		return
	}
	s.log.Debug().Msg("sesión revocada")
}

func (s *Store) handleAuthEvent(event AuthEvent, _ *RawSession) {
	s.log.Debug().Str("event", string(event)).Msg("evento de autenticación")
	s.schedule(trigger{event: event})
}

type trigger struct {
	initialize bool
	event      AuthEvent
}

// schedule pide una nueva resolución encadenada detrás de la anterior.
func (s *Store) schedule(t trigger) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	switch {
	case t.initialize:
		if s.signedOut || s.current.Status == entity.SessionLoading {
			s.mu.Unlock()
			return
		}
	case t.event == EventSignedIn:
		s.signedOut = false
	case s.signedOut:
		// tras un cierre local solo un inicio de sesión nuevo reabre la resolución
		s.mu.Unlock()
		return
	}

	s.requested++
	gen := s.requested
	prev := s.tail
	done := make(chan struct{})
	s.tail = done

	start := false
	if t.initialize {
		start = s.enqueueLocked(entity.LoadingSession())
	}
	s.mu.Unlock()

	if start {
		s.drain()
	}
	go s.run(gen, prev, done)
}

func (s *Store) run(gen uint64, prev <-chan struct{}, done chan struct{}) {
	defer close(done)
	if prev != nil {
		select {
		case <-prev:
		case <-s.ctx.Done():
			return
		}
	}
	if !s.isLatest(gen) {
		return
	}
	s.commit(gen, s.resolver.Resolve(s.ctx))
}

func (s *Store) isLatest(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && gen == s.requested
}

// commit confirma el resultado de la generación gen si sigue siendo la última pedida.
func (s *Store) commit(gen uint64, next entity.Session) bool {
	s.mu.Lock()
	if s.closed || gen != s.requested {
		s.mu.Unlock()
		s.log.Debug().Uint64("generation", gen).Str("status", next.Status.String()).Msg("resultado de sesión descartado por obsoleto")
		return false
	}
	start := s.enqueueLocked(next)
	s.mu.Unlock()

	ev := s.log.Debug()
	if next.Status == entity.SessionError {
		ev = s.log.Warn().Err(next.Cause)
	}
	ev.Uint64("generation", gen).Str("status", next.Status.String()).Msg("sesión resuelta")

	if start {
		s.drain()
	}
	return true
}

// enqueueLocked fija el valor actual y lo encola para notificar. Devuelve true si
// el llamador debe drenar la cola (no hay otro despachador activo).
func (s *Store) enqueueLocked(next entity.Session) bool {
	s.current = next
	s.queue = append(s.queue, next)
	if s.dispatching {
		return false
	}
	s.dispatching = true
	return true
}

// drain notifica en orden todas las transiciones encoladas, incluidas las que
// lleguen mientras se notifica.
func (s *Store) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		ls := make([]listener, len(s.listeners))
		copy(ls, s.listeners)
		s.mu.Unlock()

		s.persist(next)
		for _, l := range ls {
			l.fn(next)
		}
	}
}

func (s *Store) persist(next entity.Session) {
	if s.proj == nil || s.projKey == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), projectionTimeout)
	defer cancel()

	var err error
	switch next.Status {
	case entity.SessionAuthenticated:
		err = s.proj.Save(ctx, s.projKey, next.Project())
	case entity.SessionAnonymous:
		err = s.proj.Delete(ctx, s.projKey)
	default:
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("no se pudo persistir la proyección de sesión")
	}
}
