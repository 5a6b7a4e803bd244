package session

import (
	"sync"
	"time"
)

// GatewayFactory construye (o recupera) el gateway ligado a un cliente.
type GatewayFactory func(clientID string) Gateway

type registryEntry struct {
	store   *Store
	updated time.Time
}

// Registry mantiene un Store por cliente (cookie de sesión) con expiración por inactividad.
type Registry struct {
	factory GatewayFactory
	options func(clientID string) []Option
	onEvict func(clientID string)
	maxIdle time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

// RegistryConfig dependencias del registro.
type RegistryConfig struct {
	Factory GatewayFactory
	// Options opciones por cliente (logger con client_id, clave de proyección).
	Options func(clientID string) []Option
	// OnEvict se llama después de cerrar el store de un cliente inactivo.
	OnEvict func(clientID string)
	MaxIdle time.Duration
}

// NewRegistry construye el registro de stores.
func NewRegistry(cfg RegistryConfig) *Registry {
	maxIdle := cfg.MaxIdle
	if maxIdle <= 0 {
		maxIdle = 30 * time.Minute
	}
	return &Registry{
		factory: cfg.Factory,
		options: cfg.Options,
		onEvict: cfg.OnEvict,
		maxIdle: maxIdle,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// Get devuelve el store del cliente, creándolo si no existe. Aprovecha para
// descartar los clientes inactivos.
func (r *Registry) Get(clientID string) *Store {
	r.mu.Lock()
	if e, ok := r.entries[clientID]; ok {
		e.updated = r.now()
		r.mu.Unlock()
		return e.store
	}
	r.mu.Unlock()

	// NewStore puede leer la proyección de Redis: se construye fuera del lock.
	var opts []Option
	if r.options != nil {
		opts = r.options(clientID)
	}
	st := NewStore(r.factory(clientID), opts...)

	r.mu.Lock()
	now := r.now()
	if e, ok := r.entries[clientID]; ok {
		e.updated = now
		r.mu.Unlock()
		st.Close()
		return e.store
	}
	r.entries[clientID] = &registryEntry{store: st, updated: now}

	var evicted []string
	for id, e := range r.entries {
		if now.Sub(e.updated) > r.maxIdle {
			delete(r.entries, id)
			e.store.Close()
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()

	if r.onEvict != nil {
		for _, id := range evicted {
			r.onEvict(id)
		}
	}
	return st
}

// Len cantidad de clientes vivos.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// CloseAll cierra todos los stores (apagado del servidor).
func (r *Registry) CloseAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()

	for id, e := range entries {
		e.store.Close()
		if r.onEvict != nil {
			r.onEvict(id)
		}
	}
}
