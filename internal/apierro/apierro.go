// Package apierro define a taxonomia de erros da API e a tradução
// de cada classe para um status HTTP. Handlers devolvem erros desta
// taxonomia; o mapeamento para o cliente acontece num único lugar.
package apierro

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Erros sentinela da API. Use errors.Is para classificar.
var (
	// ErrNaoAutenticado indica requisição sem identidade válida.
	ErrNaoAutenticado = errors.New("autenticação necessária")

	// ErrAcessoNegado indica identidade conhecida sem privilégio
	// suficiente ou de outro parceiro.
	ErrAcessoNegado = errors.New("acesso negado")

	// ErrNaoEncontrado indica entidade referenciada inexistente.
	ErrNaoEncontrado = errors.New("recurso não encontrado")

	// ErrValidacao indica campos obrigatórios ausentes ou malformados.
	ErrValidacao = errors.New("dados inválidos")

	// ErrConflito indica violação de unicidade.
	ErrConflito = errors.New("conflito de dados")

	// ErrInconsistencia indica estado interno irresolvível (ex.: cliente
	// de um contrato sem parceiro). Bloqueia a operação em vez de assumir
	// um padrão.
	ErrInconsistencia = errors.New("inconsistência interna")
)

// Validacao cria um erro de validação com mensagem específica.
func Validacao(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidacao, msg)
}

// NaoEncontrado cria um erro de recurso ausente nomeando o recurso.
func NaoEncontrado(recurso string) error {
	return fmt.Errorf("%w: %s", ErrNaoEncontrado, recurso)
}

// Conflito cria um erro de unicidade com mensagem específica.
func Conflito(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflito, msg)
}

// DoGorm traduz erros da camada de persistência para a taxonomia.
func DoGorm(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNaoEncontrado
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflito
	default:
		return err
	}
}

// Status devolve o status HTTP correspondente à classe do erro.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNaoAutenticado):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAcessoNegado):
		return http.StatusForbidden
	case errors.Is(err, ErrNaoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, ErrValidacao):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflito):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Escrever serializa o erro como JSON com o status da taxonomia.
// Erros 5xx são logados; os demais são resultado esperado de política.
func Escrever(w http.ResponseWriter, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Error("erro interno na requisição")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
