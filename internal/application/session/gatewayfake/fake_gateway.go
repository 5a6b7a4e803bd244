// Package gatewayfake implementa session.Gateway en memoria para tests.
package gatewayfake

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
)

var _ session.Gateway = (*Gateway)(nil)

// Gateway fake controlable desde el test.
type Gateway struct {
	mu         sync.Mutex
	raw        *session.RawSession
	rows       map[string]map[string]session.Row
	rawErr     error
	fetchErr   error
	signOutErr error
	// keepOnSignOut simula un SignOut que falla sin conexión: la sesión cruda sigue ahí.
	keepOnSignOut bool
	fetchGate     chan struct{}

	signOutCalls int
	fetchCalls   int
	updates      []session.Row

	listeners map[int]func(session.AuthEvent, *session.RawSession)
	nextID    int

	// SignedOut recibe un valor por cada llamada a SignOut.
	SignedOut chan error
}

// New crea el fake sin sesión.
func New() *Gateway {
	return &Gateway{
		rows:      make(map[string]map[string]session.Row),
		listeners: make(map[int]func(session.AuthEvent, *session.RawSession)),
		SignedOut: make(chan error, 16),
	}
}

// SetRawSession fija la sesión cruda (nil = sin sesión).
func (g *Gateway) SetRawSession(raw *session.RawSession) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.raw = raw
}

// SetRow agrega o reemplaza una fila identificada por su columna "id".
func (g *Gateway) SetRow(table string, row session.Row) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rows[table] == nil {
		g.rows[table] = make(map[string]session.Row)
	}
	g.rows[table][fmt.Sprint(row["id"])] = row
}

func (g *Gateway) FailRawSession(err error) { g.mu.Lock(); g.rawErr = err; g.mu.Unlock() }
func (g *Gateway) FailFetch(err error)      { g.mu.Lock(); g.fetchErr = err; g.mu.Unlock() }

// FailSignOut hace fallar SignOut; con keep=true la sesión cruda no se borra.
func (g *Gateway) FailSignOut(err error, keep bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.signOutErr = err
	g.keepOnSignOut = keep
}

// BlockFetch hace que FetchRow espere hasta llamar a la función devuelta.
func (g *Gateway) BlockFetch() (release func()) {
	gate := make(chan struct{})
	g.mu.Lock()
	g.fetchGate = gate
	g.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			if g.fetchGate == gate {
				g.fetchGate = nil
			}
			g.mu.Unlock()
			close(gate)
		})
	}
}

// Emit notifica un evento a los suscriptores.
func (g *Gateway) Emit(event session.AuthEvent) {
	g.mu.Lock()
	raw := g.raw
	fns := make([]func(session.AuthEvent, *session.RawSession), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()
	for _, fn := range fns {
		fn(event, raw)
	}
}

func (g *Gateway) SignOutCalls() int { g.mu.Lock(); defer g.mu.Unlock(); return g.signOutCalls }
func (g *Gateway) FetchCalls() int   { g.mu.Lock(); defer g.mu.Unlock(); return g.fetchCalls }

// Updates devuelve los patches recibidos por UpdateRow.
func (g *Gateway) Updates() []session.Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]session.Row(nil), g.updates...)
}

// Listeners cantidad de suscriptores vivos.
func (g *Gateway) Listeners() int { g.mu.Lock(); defer g.mu.Unlock(); return len(g.listeners) }

func (g *Gateway) CurrentRawSession(context.Context) (*session.RawSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rawErr != nil {
		return nil, g.rawErr
	}
	if g.raw == nil {
		return nil, nil
	}
	cp := *g.raw
	return &cp, nil
}

func (g *Gateway) OnAuthStateChange(fn func(session.AuthEvent, *session.RawSession)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	id := g.nextID
	g.listeners[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

func (g *Gateway) SignOut(context.Context) error {
	g.mu.Lock()
	g.signOutCalls++
	err := g.signOutErr
	if err == nil || !g.keepOnSignOut {
		g.raw = nil
	}
	g.mu.Unlock()
	g.SignedOut <- err
	return err
}

func (g *Gateway) FetchRow(ctx context.Context, table string, filter session.Filter) (session.Row, error) {
	g.mu.Lock()
	g.fetchCalls++
	gate := g.fetchGate
	g.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	row, ok := g.rows[table][fmt.Sprint(filter["id"])]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := make(session.Row, len(row))
	for k, v := range row {
		cp[k] = v
	}
	return cp, nil
}

func (g *Gateway) UpdateRow(_ context.Context, table string, filter session.Filter, patch session.Row) (session.Row, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	row, ok := g.rows[table][fmt.Sprint(filter["id"])]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for k, v := range patch {
		row[k] = v
	}
	g.updates = append(g.updates, patch)
	cp := make(session.Row, len(row))
	for k, v := range row {
		cp[k] = v
	}
	return cp, nil
}
