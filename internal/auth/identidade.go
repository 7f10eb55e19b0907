package auth

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/usuario"
)

// ResolverUsuario traduz as claims validadas no usuário persistido.
// Sujeito ausente ou mal formado resolve para nil em vez de erro; a
// requisição segue como anônima e falha nos Require* dos handlers.
func ResolverUsuario(db *gorm.DB, repo usuario.Repository, claims *Claims) *usuario.Usuario {
	if claims == nil || claims.Subject == "" {
		return nil
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil
	}
	u, err := repo.BuscarPorID(db, id)
	if err != nil {
		return nil
	}
	return u
}
