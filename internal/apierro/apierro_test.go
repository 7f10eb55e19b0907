package apierro

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"não autenticado", ErrNaoAutenticado, http.StatusUnauthorized},
		{"acesso negado", ErrAcessoNegado, http.StatusForbidden},
		{"não encontrado", NaoEncontrado("contrato"), http.StatusNotFound},
		{"validação", Validacao("campo ausente"), http.StatusBadRequest},
		{"conflito", Conflito("nome duplicado"), http.StatusConflict},
		{"inconsistência interna", ErrInconsistencia, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestDoGorm(t *testing.T) {
	assert.NoError(t, DoGorm(nil))
	assert.ErrorIs(t, DoGorm(gorm.ErrRecordNotFound), ErrNaoEncontrado)
	assert.ErrorIs(t, DoGorm(gorm.ErrDuplicatedKey), ErrConflito)
	assert.ErrorIs(t, DoGorm(gorm.ErrInvalidTransaction), gorm.ErrInvalidTransaction)
}

func TestEscrever(t *testing.T) {
	rec := httptest.NewRecorder()
	Escrever(rec, Validacao("nome é obrigatório"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "nome é obrigatório")
}
