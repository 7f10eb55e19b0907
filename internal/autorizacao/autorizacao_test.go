package autorizacao

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gestaoparceiros/api-contratos/internal/apierro"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
)

func usuarioCom(role usuario.Role, parceiroID *uuid.UUID) *usuario.Usuario {
	return &usuario.Usuario{ID: uuid.New(), Role: role, ParceiroID: parceiroID}
}

func TestPodeAcessarRecurso(t *testing.T) {
	parceiroA := uuid.New()
	parceiroB := uuid.New()

	tests := []struct {
		name    string
		u       *usuario.Usuario
		recurso uuid.UUID
		want    bool
	}{
		{
			name:    "admin global acessa qualquer parceiro",
			u:       usuarioCom(usuario.RoleAdminGlobal, nil),
			recurso: parceiroA,
			want:    true,
		},
		{
			name:    "admin de parceiro acessa o próprio parceiro",
			u:       usuarioCom(usuario.RoleAdminParceiro, &parceiroA),
			recurso: parceiroA,
			want:    true,
		},
		{
			name:    "admin de parceiro não acessa outro parceiro",
			u:       usuarioCom(usuario.RoleAdminParceiro, &parceiroA),
			recurso: parceiroB,
			want:    false,
		},
		{
			name:    "usuário sem parceiro não acessa nada",
			u:       usuarioCom(usuario.RoleUserParceiro, nil),
			recurso: parceiroA,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PodeAcessarRecurso(tt.u, tt.recurso))
		})
	}
}

func TestPodeCriarParaParceiro(t *testing.T) {
	parceiroA := uuid.New()
	parceiroB := uuid.New()

	tests := []struct {
		name string
		u    *usuario.Usuario
		alvo *uuid.UUID
		want bool
	}{
		{
			name: "admin global cria para qualquer parceiro",
			u:    usuarioCom(usuario.RoleAdminGlobal, nil),
			alvo: &parceiroB,
			want: true,
		},
		{
			name: "usuário cria no próprio parceiro",
			u:    usuarioCom(usuario.RoleUserParceiro, &parceiroA),
			alvo: &parceiroA,
			want: true,
		},
		{
			name: "usuário não cria em outro parceiro",
			u:    usuarioCom(usuario.RoleUserParceiro, &parceiroA),
			alvo: &parceiroB,
			want: false,
		},
		{
			name: "alvo nulo cai no parceiro do usuário",
			u:    usuarioCom(usuario.RoleUserParceiro, &parceiroA),
			alvo: nil,
			want: true,
		},
		{
			name: "usuário sem parceiro não cria",
			u:    usuarioCom(usuario.RoleUserParceiro, nil),
			alvo: nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PodeCriarParaParceiro(tt.u, tt.alvo))
		})
	}
}

func TestAtribuirParceiro(t *testing.T) {
	parceiroA := uuid.New()
	parceiroB := uuid.New()

	t.Run("admin global mantém o valor fornecido", func(t *testing.T) {
		u := usuarioCom(usuario.RoleAdminGlobal, nil)
		assert.Equal(t, &parceiroB, AtribuirParceiro(u, &parceiroB))
		assert.Nil(t, AtribuirParceiro(u, nil))
	})

	t.Run("usuário de parceiro tem o próprio parceiro forçado", func(t *testing.T) {
		u := usuarioCom(usuario.RoleAdminParceiro, &parceiroA)
		got := AtribuirParceiro(u, &parceiroB)
		assert.Equal(t, &parceiroA, got)
	})

	t.Run("payload nulo também recebe o parceiro do usuário", func(t *testing.T) {
		u := usuarioCom(usuario.RoleUserParceiro, &parceiroA)
		assert.Equal(t, &parceiroA, AtribuirParceiro(u, nil))
	})
}

func TestRequireAuthenticated(t *testing.T) {
	t.Run("contexto sem usuário falha com não autenticado", func(t *testing.T) {
		_, err := RequireAuthenticated(context.Background())
		assert.ErrorIs(t, err, apierro.ErrNaoAutenticado)
	})

	t.Run("contexto com usuário devolve o usuário", func(t *testing.T) {
		u := usuarioCom(usuario.RoleUserParceiro, nil)
		got, err := RequireAuthenticated(ComUsuario(context.Background(), u))
		assert.NoError(t, err)
		assert.Equal(t, u, got)
	})
}

func TestRequireAdminGlobal(t *testing.T) {
	parceiroA := uuid.New()

	t.Run("admin global passa", func(t *testing.T) {
		u := usuarioCom(usuario.RoleAdminGlobal, nil)
		_, err := RequireAdminGlobal(ComUsuario(context.Background(), u))
		assert.NoError(t, err)
	})

	t.Run("admin de parceiro é negado", func(t *testing.T) {
		u := usuarioCom(usuario.RoleAdminParceiro, &parceiroA)
		_, err := RequireAdminGlobal(ComUsuario(context.Background(), u))
		assert.ErrorIs(t, err, apierro.ErrAcessoNegado)
	})
}

func TestRequireAdmin(t *testing.T) {
	parceiroA := uuid.New()

	_, err := RequireAdmin(ComUsuario(context.Background(), usuarioCom(usuario.RoleAdminParceiro, &parceiroA)))
	assert.NoError(t, err)

	_, err = RequireAdmin(ComUsuario(context.Background(), usuarioCom(usuario.RoleUserParceiro, &parceiroA)))
	assert.ErrorIs(t, err, apierro.ErrAcessoNegado)
}
