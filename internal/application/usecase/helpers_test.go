package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository/repofake"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/retry"
)

func noWait() retry.Policy {
	p := retry.DefaultPolicy()
	p.Sleep = func(context.Context, time.Duration) error { return nil }
	return p
}

type notified struct {
	userID string
	event  session.AuthEvent
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notified
}

func (n *fakeNotifier) NotifyUser(userID string, event session.AuthEvent) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notified{userID, event})
	return 1
}

// fakeOnboarding ejecuta fn contra los fakes; Err simula un fallo al abrir la transacción.
type fakeOnboarding struct {
	inmos *repofake.Inmobiliarias
	users *repofake.Users
	Err   error
}

func (f *fakeOnboarding) RunOnboarding(_ context.Context, fn func(repository.InmobiliariaRepository, repository.UserRepository) error) error {
	if f.Err != nil {
		return f.Err
	}
	return fn(f.inmos, f.users)
}

type fakeReport struct {
	tenant string
	board  *dto.PipelineResponse
}

func (r *fakeReport) GeneratePipelineReport(_ context.Context, tenant string, board *dto.PipelineResponse) ([]byte, error) {
	r.tenant = tenant
	r.board = board
	return []byte("%PDF-fake"), nil
}

func identity(id string, role entity.Role, inmo string) *entity.Identity {
	return &entity.Identity{ID: id, Role: role, InmobiliariaID: inmo, TenantName: "Inmo Uno", Active: true}
}
