package auth

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/apierro"
	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
)

// MiddlewareAutenticacao resolve o portador do token no usuário
// persistido e o injeta no contexto. Usuário desativado é rejeitado
// aqui, antes de qualquer handler.
func MiddlewareAutenticacao(db *gorm.DB, repo usuario.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				apierro.Escrever(w, apierro.ErrNaoAutenticado)
				return
			}

			claims, err := ValidarToken(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				apierro.Escrever(w, apierro.ErrNaoAutenticado)
				return
			}

			u := ResolverUsuario(db, repo, claims)
			if u == nil || !u.Ativo {
				apierro.Escrever(w, apierro.ErrNaoAutenticado)
				return
			}

			next.ServeHTTP(w, r.WithContext(autorizacao.ComUsuario(r.Context(), u)))
		})
	}
}
