// Package autorizacao concentra as regras de multi-tenancy: predicados de
// permissão por role, guardas pontuais por recurso, atribuição automática
// de parceiro e os escopos de consulta por parceiro. Todas as funções
// recebem o usuário atuante explicitamente; nada aqui lê estado global.
package autorizacao

import (
	"context"

	"github.com/google/uuid"

	"github.com/gestaoparceiros/api-contratos/internal/apierro"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
)

type ctxKey string

const ctxUsuario ctxKey = "usuarioAtuante"

// ComUsuario devolve um contexto carregando o usuário resolvido pela
// autenticação. É a única forma de um handler enxergar a identidade.
func ComUsuario(ctx context.Context, u *usuario.Usuario) context.Context {
	return context.WithValue(ctx, ctxUsuario, u)
}

// UsuarioDoContexto devolve o usuário atuante ou nil se a requisição
// não passou pela autenticação.
func UsuarioDoContexto(ctx context.Context) *usuario.Usuario {
	u, _ := ctx.Value(ctxUsuario).(*usuario.Usuario)
	return u
}

// RequireAuthenticated falha com ErrNaoAutenticado quando não há usuário
// resolvido no contexto.
func RequireAuthenticated(ctx context.Context) (*usuario.Usuario, error) {
	u := UsuarioDoContexto(ctx)
	if u == nil {
		return nil, apierro.ErrNaoAutenticado
	}
	return u, nil
}

// RequireAdmin exige admin global ou admin de parceiro.
func RequireAdmin(ctx context.Context) (*usuario.Usuario, error) {
	u, err := RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if u.Role != usuario.RoleAdminGlobal && u.Role != usuario.RoleAdminParceiro {
		return nil, apierro.ErrAcessoNegado
	}
	return u, nil
}

// RequireAdminGlobal exige o role de administrador global.
func RequireAdminGlobal(ctx context.Context) (*usuario.Usuario, error) {
	u, err := RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if u.Role != usuario.RoleAdminGlobal {
		return nil, apierro.ErrAcessoNegado
	}
	return u, nil
}

// PodeGerenciarUsuarios informa se o usuário pode provisionar/gerir
// outros usuários (admin global ou admin de parceiro).
func PodeGerenciarUsuarios(u *usuario.Usuario) bool {
	return u.Role == usuario.RoleAdminGlobal || u.Role == usuario.RoleAdminParceiro
}

// PodeAcessarRecurso é a guarda pontual para leituras/mutações de um
// objeto já carregado: admin global acessa tudo; os demais acessam
// apenas recursos do próprio parceiro.
func PodeAcessarRecurso(u *usuario.Usuario, parceiroDoRecurso uuid.UUID) bool {
	if u.Role == usuario.RoleAdminGlobal {
		return true
	}
	if u.ParceiroID == nil {
		return false
	}
	return *u.ParceiroID == parceiroDoRecurso
}

// PodeCriarParaParceiro informa se o usuário pode criar um recurso em
// nome do parceiro alvo. Alvo nulo cai no parceiro do próprio usuário.
func PodeCriarParaParceiro(u *usuario.Usuario, alvo *uuid.UUID) bool {
	if u.Role == usuario.RoleAdminGlobal {
		return true
	}
	if u.ParceiroID == nil {
		return false
	}
	if alvo == nil {
		return true
	}
	return *u.ParceiroID == *alvo
}

// AtribuirParceiro aplica a atribuição automática de parceiro num payload
// de criação. Admin global mantém o valor fornecido (possivelmente nulo);
// qualquer outro usuário tem o próprio parceiro forçado, ignorando o que
// veio no payload. Deve rodar antes da validação de parceiro obrigatório.
func AtribuirParceiro(u *usuario.Usuario, fornecido *uuid.UUID) *uuid.UUID {
	if u.Role == usuario.RoleAdminGlobal {
		return fornecido
	}
	return u.ParceiroID
}
