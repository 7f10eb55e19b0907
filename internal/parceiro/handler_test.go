package parceiro

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
)

func abrirBanco(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Parceiro{}))
	return db
}

func criarComo(t *testing.T, h *Handler, u *usuario.Usuario, corpo parceiroPayload) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(corpo))
	req := httptest.NewRequest("POST", "/api/partners", &buf)
	req = req.WithContext(autorizacao.ComUsuario(req.Context(), u))
	rec := httptest.NewRecorder()
	h.Criar(rec, req)
	return rec
}

func TestCriarParceiro(t *testing.T) {
	db := abrirBanco(t)
	h := NewHandler(db)
	admGlobal := &usuario.Usuario{Role: usuario.RoleAdminGlobal}

	t.Run("nome duplicado responde 409", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, criarComo(t, h, admGlobal, parceiroPayload{Nome: "Acme"}).Code)

		rec := criarComo(t, h, admGlobal, parceiroPayload{Nome: "Acme"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "já existe")
	})

	t.Run("admin de parceiro é negado", func(t *testing.T) {
		rec := criarComo(t, h, &usuario.Usuario{Role: usuario.RoleAdminParceiro}, parceiroPayload{Nome: "Outro"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
