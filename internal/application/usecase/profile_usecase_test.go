package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session/gatewayfake"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/usecase"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

func strp(s string) *string { return &s }

func TestProfileUseCase_Update(t *testing.T) {
	gw := gatewayfake.New()
	gw.SetRow(session.TableUsers, session.Row{"id": "u1", "nombre": "Ana"})
	n := &fakeNotifier{}
	uc := usecase.NewProfileUseCase(n)

	err := uc.Update(context.Background(), gw, identity("u1", entity.RoleSeller, "i1"), dto.UpdateProfileRequest{
		Name: strp(" Ana María "), AvatarURL: strp("https://cdn.example.com/a.png"),
	})
	require.NoError(t, err)
	require.Len(t, gw.Updates(), 1)
	assert.Equal(t, session.Row{"nombre": "Ana María", "avatar_url": "https://cdn.example.com/a.png"}, gw.Updates()[0])
	assert.Equal(t, []notified{{"u1", session.EventUserUpdated}}, n.calls)
}

func TestProfileUseCase_Update_Invalido(t *testing.T) {
	gw := gatewayfake.New()
	gw.SetRow(session.TableUsers, session.Row{"id": "u1"})
	n := &fakeNotifier{}
	uc := usecase.NewProfileUseCase(n)
	me := identity("u1", entity.RoleSeller, "i1")

	cases := map[string]dto.UpdateProfileRequest{
		"vacío":         {},
		"nombre vacío":  {Name: strp("  ")},
		"avatar no url": {AvatarURL: strp("ftp://x/a.png")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, uc.Update(context.Background(), gw, me, in), domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, gw.Updates())
	assert.Empty(t, n.calls)
}

func TestProfileUseCase_Update_SinFila(t *testing.T) {
	n := &fakeNotifier{}
	uc := usecase.NewProfileUseCase(n)

	err := uc.Update(context.Background(), gatewayfake.New(), identity("u1", entity.RoleSeller, "i1"), dto.UpdateProfileRequest{Name: strp("Ana")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, n.calls)
}
