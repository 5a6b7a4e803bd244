package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session/gatewayfake"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/retry"
)

// transitions acumula las transiciones que ve un suscriptor.
type transitions struct {
	mu   sync.Mutex
	seen []entity.SessionStatus
}

func (tr *transitions) add(s entity.Session) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.seen = append(tr.seen, s.Status)
}

func (tr *transitions) list() []entity.SessionStatus {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]entity.SessionStatus(nil), tr.seen...)
}

func waitResolved(t *testing.T, st *session.Store) entity.Session {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s, err := st.Wait(ctx)
	require.NoError(t, err, "la sesión no se resolvió a tiempo")
	return s
}

func authenticatedGateway() *gatewayfake.Gateway {
	gw := gatewayfake.New()
	gw.SetRawSession(rawSession("admin", inmoA))
	gw.SetRow(session.TableUsers, userRow("admin", inmoA, true))
	return gw
}

func TestStore_EstadoInicialNoInicializado(t *testing.T) {
	st := session.NewStore(gatewayfake.New())
	defer st.Close()
	assert.Equal(t, entity.SessionUninitialized, st.Current().Status)
}

func TestStore_InitializeResuelveYNotificaEnOrden(t *testing.T) {
	gw := authenticatedGateway()
	st := session.NewStore(gw)
	defer st.Close()

	tr := &transitions{}
	st.Subscribe(tr.add)

	st.Initialize()
	got := waitResolved(t, st)

	assert.Equal(t, entity.SessionAuthenticated, got.Status)
	assert.Equal(t, []entity.SessionStatus{entity.SessionLoading, entity.SessionAuthenticated}, tr.list())
}

func TestStore_InitializeIdempotenteMientrasCarga(t *testing.T) {
	gw := authenticatedGateway()
	release := gw.BlockFetch()
	st := session.NewStore(gw)
	defer st.Close()

	st.Initialize()
	st.Initialize()
	st.Initialize()
	assert.Equal(t, entity.SessionLoading, st.Current().Status)

	release()
	waitResolved(t, st)
	assert.Equal(t, 2, gw.FetchCalls(), "perfil e inmobiliaria de una única resolución")
}

func TestStore_EventoReResuelve(t *testing.T) {
	gw := gatewayfake.New()
	st := session.NewStore(gw)
	defer st.Close()

	st.Initialize()
	require.Equal(t, entity.SessionAnonymous, waitResolved(t, st).Status)

	done := make(chan entity.Session, 4)
	st.Subscribe(func(s entity.Session) { done <- s })

	gw.SetRawSession(rawSession("seller", inmoB))
	gw.SetRow(session.TableUsers, userRow("seller", inmoB, true))
	gw.Emit(session.EventSignedIn)

	select {
	case s := <-done:
		assert.Equal(t, entity.SessionAuthenticated, s.Status)
		assert.Equal(t, entity.RoleSeller, s.Identity.Role)
	case <-time.After(2 * time.Second):
		t.Fatal("el evento SIGNED_IN no disparó una resolución")
	}
}

// Una resolución en curso no se interrumpe; el evento que llega mientras tanto
// corre después y el resultado viejo no pisa al nuevo.
func TestStore_ResolucionesSerializadasYResultadoViejoDescartado(t *testing.T) {
	gw := authenticatedGateway()
	release := gw.BlockFetch()
	st := session.NewStore(gw)
	defer st.Close()

	tr := &transitions{}
	st.Subscribe(tr.add)

	st.Initialize() // G1 queda bloqueada leyendo el perfil
	require.Eventually(t, func() bool { return gw.FetchCalls() == 1 }, time.Second, 5*time.Millisecond)

	gw.SetRawSession(nil)
	gw.Emit(session.EventTokenRefreshed) // G2 en cola
	release()

	require.Eventually(t, func() bool {
		return st.Current().Status == entity.SessionAnonymous
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []entity.SessionStatus{entity.SessionLoading, entity.SessionAnonymous}, tr.list(),
		"el Authenticated de G1 nunca debe confirmarse")
}

func TestStore_SignOutOptimistaSinConexion(t *testing.T) {
	gw := authenticatedGateway()
	st := session.NewStore(gw)
	defer st.Close()

	st.Initialize()
	require.Equal(t, entity.SessionAuthenticated, waitResolved(t, st).Status)
	fetches := gw.FetchCalls()

	gw.FailSignOut(errors.New("sin conexión"), true)
	st.SignOut()
	assert.Equal(t, entity.SessionAnonymous, st.Current().Status, "el cierre local es inmediato")

	select {
	case err := <-gw.SignedOut:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("no se intentó revocar la sesión")
	}

	// La sesión cruda sigue existiendo en el gateway; ni eventos ni Initialize la reabren.
	gw.Emit(session.EventTokenRefreshed)
	gw.Emit(session.EventUserUpdated)
	st.Initialize()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, entity.SessionAnonymous, st.Current().Status)
	assert.Equal(t, fetches, gw.FetchCalls(), "tras el cierre no se vuelve a leer el perfil")
}

func TestStore_SignInTrasSignOutReabre(t *testing.T) {
	gw := authenticatedGateway()
	st := session.NewStore(gw)
	defer st.Close()

	st.Initialize()
	waitResolved(t, st)
	st.SignOut()
	<-gw.SignedOut

	gw.SetRawSession(rawSession("admin", inmoA))
	gw.Emit(session.EventSignedIn)
	require.Eventually(t, func() bool {
		return st.Current().Status == entity.SessionAuthenticated
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStore_SignOutDesdeUnSuscriptorNoPierdeElEstadoFinal(t *testing.T) {
	gw := authenticatedGateway()
	st := session.NewStore(gw)
	defer st.Close()

	tr := &transitions{}
	st.Subscribe(func(s entity.Session) {
		if s.Status == entity.SessionAuthenticated {
			st.SignOut()
		}
	})
	st.Subscribe(tr.add)

	st.Initialize()
	require.Eventually(t, func() bool {
		l := tr.list()
		return len(l) == 3
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []entity.SessionStatus{
		entity.SessionLoading, entity.SessionAuthenticated, entity.SessionAnonymous,
	}, tr.list())
	assert.Equal(t, entity.SessionAnonymous, st.Current().Status)
}

func TestStore_Unsubscribe(t *testing.T) {
	gw := gatewayfake.New()
	st := session.NewStore(gw)
	defer st.Close()

	tr := &transitions{}
	unsub := st.Subscribe(tr.add)
	unsub()
	unsub()

	st.Initialize()
	waitResolved(t, st)
	assert.Empty(t, tr.list())
}

func TestStore_CloseDescartaResolucionPendiente(t *testing.T) {
	gw := authenticatedGateway()
	release := gw.BlockFetch()
	st := session.NewStore(gw)

	st.Initialize()
	require.Eventually(t, func() bool { return gw.FetchCalls() == 1 }, time.Second, 5*time.Millisecond)
	st.Close()
	release()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, entity.SessionLoading, st.Current().Status)
	assert.Zero(t, gw.Listeners(), "Close se desuscribe del gateway")
}

func TestStore_WaitRespetaContexto(t *testing.T) {
	gw := authenticatedGateway()
	release := gw.BlockFetch()
	defer release()
	st := session.NewStore(gw)
	defer st.Close()

	st.Initialize()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s, err := st.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, entity.SessionLoading, s.Status)
}

func TestStore_ConRetryDelGatewayToleraFallosTransitorios(t *testing.T) {
	gw := authenticatedGateway()
	gw.FailFetch(retry.ErrTransient)

	p := retry.DefaultPolicy()
	p.MaxRetries = 5
	p.Sleep = func(context.Context, time.Duration) error {
		if gw.FetchCalls() == 2 {
			gw.FailFetch(nil)
		}
		return nil
	}
	st := session.NewStore(session.WithRetry(gw, p))
	defer st.Close()

	st.Initialize()
	got := waitResolved(t, st)
	assert.Equal(t, entity.SessionAuthenticated, got.Status)
	assert.Equal(t, 4, gw.FetchCalls(), "2 fallidos + perfil + inmobiliaria")
}
