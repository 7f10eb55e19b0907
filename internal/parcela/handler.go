package parcela

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/apierro"
	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
	"github.com/gestaoparceiros/api-contratos/internal/contrato"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
)

type Handler struct {
	DB        *gorm.DB
	Repo      *Repository
	Contratos contrato.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repo: NewRepository(), Contratos: contrato.NewRepository()}
}

type parcelaPayload struct {
	ContratoID            *uuid.UUID `json:"contratoId"`
	Mes                   string     `json:"mes"`
	Valor                 *float64   `json:"valor"`
	Faturada              *bool      `json:"faturada"`
	NotaFiscal            string     `json:"notaFiscal"`
	DataFaturamento       *time.Time `json:"dataFaturamento"`
	PrazoPagamento        *int       `json:"prazoPagamento"`
	DataPrevistaPagamento *time.Time `json:"dataPrevistaPagamento"`
	DataPagamento         *time.Time `json:"dataPagamento"`
}

// GET /api/installments
// Filtros: contratoId, faturada, mes, ano. Escopo de parceiro via
// contratos -> clientes.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var f Filtros
	if v := r.URL.Query().Get("contratoId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.ContratoID = &id
		}
	}
	if v := r.URL.Query().Get("faturada"); v != "" {
		b := v == "true" || v == "1"
		f.Faturada = &b
	}
	f.Mes = r.URL.Query().Get("mes")
	f.Ano = r.URL.Query().Get("ano")

	parcelas, err := h.Repo.Listar(h.DB, autorizacao.EscopoParcelas(u), f)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(parcelas)
}

// GET /api/installments/summary
// Resumo financeiro das parcelas visíveis ao usuário.
func (h *Handler) Resumo(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	totalFaturado, qtdFaturadas, err := h.Repo.SomaPorFaturada(h.DB, autorizacao.EscopoParcelas(u), true)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}
	totalPendente, qtdPendentes, err := h.Repo.SomaPorFaturada(h.DB, autorizacao.EscopoParcelas(u), false)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}
	resumos, err := h.Repo.ResumosPorContrato(h.DB, autorizacao.EscopoParcelas(u))
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	total := totalFaturado + totalPendente
	percentual := 0.0
	if total > 0 {
		percentual = totalFaturado / total * 100
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"totalFaturado":      totalFaturado,
		"totalPendente":      totalPendente,
		"total":              total,
		"qtdFaturadas":       qtdFaturadas,
		"qtdPendentes":       qtdPendentes,
		"percentualFaturado": percentual,
		"contratos":          resumos,
	})
}

// GET /api/installments/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	p, _, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// POST /api/installments
// Criação e recálculo do contrato na mesma transação.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var in parcelaPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}
	if in.ContratoID == nil || in.Mes == "" || in.Valor == nil {
		apierro.Escrever(w, apierro.Validacao("contratoId, mes e valor são obrigatórios"))
		return
	}

	c, err := h.Contratos.BuscarPorID(h.DB, *in.ContratoID)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("contrato"))
		return
	}
	if c.Cliente == nil {
		apierro.Escrever(w, apierro.ErrInconsistencia)
		return
	}
	if !autorizacao.PodeAcessarRecurso(u, c.Cliente.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	p := Parcela{
		ContratoID:            c.ID,
		Mes:                   in.Mes,
		Valor:                 *in.Valor,
		NotaFiscal:            in.NotaFiscal,
		DataFaturamento:       in.DataFaturamento,
		PrazoPagamento:        in.PrazoPagamento,
		DataPrevistaPagamento: in.DataPrevistaPagamento,
		DataPagamento:         in.DataPagamento,
	}
	if in.Faturada != nil {
		p.Faturada = *in.Faturada
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		apierro.Escrever(w, tx.Error)
		return
	}
	if err := h.Repo.Criar(tx, &p); err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}
	if err := h.Repo.RecalcularFaturamento(tx, c.ID); err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// PUT /api/installments/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	p, _, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	var in parcelaPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}

	if in.Mes != "" {
		p.Mes = in.Mes
	}
	if in.Valor != nil {
		p.Valor = *in.Valor
	}
	if in.Faturada != nil {
		p.Faturada = *in.Faturada
	}
	if in.NotaFiscal != "" {
		p.NotaFiscal = in.NotaFiscal
	}
	if in.DataFaturamento != nil {
		p.DataFaturamento = in.DataFaturamento
	}
	if in.PrazoPagamento != nil {
		p.PrazoPagamento = in.PrazoPagamento
	}
	if in.DataPrevistaPagamento != nil {
		p.DataPrevistaPagamento = in.DataPrevistaPagamento
	}
	if in.DataPagamento != nil {
		p.DataPagamento = in.DataPagamento
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		apierro.Escrever(w, tx.Error)
		return
	}
	if err := h.Repo.Salvar(tx, p); err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}
	if err := h.Repo.RecalcularFaturamento(tx, p.ContratoID); err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// PATCH /api/installments/{id}/mark-billed
func (h *Handler) MarcarFaturada(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	p, _, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	// Corpo opcional; sem payload a parcela é marcada como faturada.
	payload := struct {
		Faturada *bool `json:"faturada"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}

	p.Faturada = true
	if payload.Faturada != nil {
		p.Faturada = *payload.Faturada
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		apierro.Escrever(w, tx.Error)
		return
	}
	if err := h.Repo.Salvar(tx, p); err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}
	if err := h.Repo.RecalcularFaturamento(tx, p.ContratoID); err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// DELETE /api/installments/{id}
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	p, _, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	tx := h.DB.Begin()
	if tx.Error != nil {
		apierro.Escrever(w, tx.Error)
		return
	}
	if err := h.Repo.Deletar(tx, p.ID); err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, err)
		return
	}
	if err := h.Repo.RecalcularFaturamento(tx, p.ContratoID); err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		_ = tx.Rollback()
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "parcela removida com sucesso"})
}

// buscarComGuarda resolve {id}, carrega a parcela e aplica a guarda de
// parceiro pelo cliente do contrato. Em falha, a resposta já foi escrita.
func (h *Handler) buscarComGuarda(w http.ResponseWriter, r *http.Request, u *usuario.Usuario) (*Parcela, *contrato.Contrato, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierro.Escrever(w, apierro.Validacao("ID de parcela inválido"))
		return nil, nil, false
	}

	p, err := h.Repo.BuscarPorID(h.DB, id)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("parcela"))
		return nil, nil, false
	}

	c, err := h.Contratos.BuscarPorID(h.DB, p.ContratoID)
	if err != nil || c.Cliente == nil {
		apierro.Escrever(w, apierro.ErrInconsistencia)
		return nil, nil, false
	}
	if !autorizacao.PodeAcessarRecurso(u, c.Cliente.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return nil, nil, false
	}
	return p, c, true
}
