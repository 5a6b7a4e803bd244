package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/application/usecase"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository/repofake"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/retry"
)

func TestUserUseCase_Create(t *testing.T) {
	users := repofake.NewUsers()
	uc := usecase.NewUserUseCase(users, nil, noWait())
	admin := identity("a1", entity.RoleAdmin, "i1")

	out, err := uc.Create(context.Background(), admin, dto.CreateUserRequest{
		Email: " Vendedor@Inmo.com ", Password: "12345678", Name: "Vero", Role: "seller",
	})
	require.NoError(t, err)
	assert.Equal(t, "vendedor@inmo.com", out.Email)
	assert.Equal(t, "i1", out.InmobiliariaID)
	assert.True(t, out.Active)

	stored, err := users.GetByEmail(context.Background(), "vendedor@inmo.com")
	require.NoError(t, err)
	assert.NotEqual(t, "12345678", stored.PasswordHash)
}

func TestUserUseCase_Create_Reglas(t *testing.T) {
	admin := identity("a1", entity.RoleAdmin, "i1")
	dev := identity("d1", entity.RoleDeveloper, "i0")
	cases := []struct {
		name  string
		actor *entity.Identity
		in    dto.CreateUserRequest
		want  error
	}{
		{"admin no crea developers", admin, dto.CreateUserRequest{Email: "x@y.com", Password: "12345678", Role: "developer"}, domain.ErrForbidden},
		{"admin no crea en otra inmobiliaria", admin, dto.CreateUserRequest{Email: "x@y.com", Password: "12345678", Role: "seller", InmobiliariaID: "i2"}, domain.ErrForbidden},
		{"email inválido", admin, dto.CreateUserRequest{Email: "no-es-email", Password: "12345678", Role: "seller"}, domain.ErrInvalidInput},
		{"password corta", admin, dto.CreateUserRequest{Email: "x@y.com", Password: "123", Role: "seller"}, domain.ErrInvalidInput},
		{"rol desconocido", admin, dto.CreateUserRequest{Email: "x@y.com", Password: "12345678", Role: "root"}, domain.ErrInvalidInput},
		{"developer sin inmobiliaria", identity("d2", entity.RoleDeveloper, ""), dto.CreateUserRequest{Email: "x@y.com", Password: "12345678", Role: "developer"}, domain.ErrInvalidInput},
		{"developer en otra inmobiliaria", dev, dto.CreateUserRequest{Email: "x@y.com", Password: "12345678", Role: "admin", InmobiliariaID: "i2"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := usecase.NewUserUseCase(repofake.NewUsers(), nil, noWait())
			out, err := uc.Create(context.Background(), tc.actor, tc.in)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "i2", out.InmobiliariaID)
		})
	}
}

func TestUserUseCase_Create_Duplicado(t *testing.T) {
	users := repofake.NewUsers(&entity.User{ID: "u1", InmobiliariaID: "i1", Email: "ana@inmo.com"})
	uc := usecase.NewUserUseCase(users, nil, noWait())

	_, err := uc.Create(context.Background(), identity("a1", entity.RoleAdmin, "i1"), dto.CreateUserRequest{
		Email: "ANA@inmo.com", Password: "12345678", Role: "seller",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserUseCase_SetActive_NotificaSesiones(t *testing.T) {
	users := repofake.NewUsers(&entity.User{ID: "s1", InmobiliariaID: "i1", Email: "s@inmo.com", Role: entity.RoleSeller, Active: true})
	n := &fakeNotifier{}
	uc := usecase.NewUserUseCase(users, n, noWait())

	out, err := uc.SetActive(context.Background(), identity("a1", entity.RoleAdmin, "i1"), "s1", false)
	require.NoError(t, err)
	assert.False(t, out.Active)
	assert.Equal(t, []notified{{"s1", session.EventUserUpdated}}, n.calls)
}

func TestUserUseCase_SetActive_Reglas(t *testing.T) {
	seed := func() *repofake.Users {
		return repofake.NewUsers(
			&entity.User{ID: "s1", InmobiliariaID: "i1", Role: entity.RoleSeller, Active: true},
			&entity.User{ID: "s2", InmobiliariaID: "i2", Role: entity.RoleSeller, Active: true},
			&entity.User{ID: "d1", InmobiliariaID: "i1", Role: entity.RoleDeveloper, Active: true},
		)
	}
	admin := identity("a1", entity.RoleAdmin, "i1")

	t.Run("no puede desactivarse a sí mismo", func(t *testing.T) {
		uc := usecase.NewUserUseCase(seed(), nil, noWait())
		_, err := uc.SetActive(context.Background(), admin, "a1", false)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("otra inmobiliaria no existe para un admin", func(t *testing.T) {
		uc := usecase.NewUserUseCase(seed(), nil, noWait())
		_, err := uc.SetActive(context.Background(), admin, "s2", false)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("admin no toca developers", func(t *testing.T) {
		uc := usecase.NewUserUseCase(seed(), nil, noWait())
		_, err := uc.SetActive(context.Background(), admin, "d1", false)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
	t.Run("developer cruza inmobiliarias", func(t *testing.T) {
		n := &fakeNotifier{}
		uc := usecase.NewUserUseCase(seed(), n, noWait())
		out, err := uc.SetActive(context.Background(), identity("d1", entity.RoleDeveloper, "i1"), "s2", false)
		require.NoError(t, err)
		assert.False(t, out.Active)
		assert.Len(t, n.calls, 1)
	})
	t.Run("inexistente", func(t *testing.T) {
		uc := usecase.NewUserUseCase(seed(), nil, noWait())
		_, err := uc.SetActive(context.Background(), admin, "nadie", true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserUseCase_List_Reintentos(t *testing.T) {
	t.Run("error de dominio no se reintenta", func(t *testing.T) {
		users := repofake.NewUsers()
		users.Err = domain.ErrNotFound
		uc := usecase.NewUserUseCase(users, nil, noWait())

		_, err := uc.List(context.Background(), "i1", dto.PageRequest{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 1, users.Calls)
	})
	t.Run("error transitorio agota la política", func(t *testing.T) {
		users := repofake.NewUsers()
		users.Err = retry.ErrTransient
		uc := usecase.NewUserUseCase(users, nil, noWait())

		_, err := uc.List(context.Background(), "i1", dto.PageRequest{})
		assert.ErrorIs(t, err, retry.ErrTransient)
		assert.Equal(t, 4, users.Calls)
	})
}
