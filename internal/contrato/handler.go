package contrato

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/apierro"
	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
	"github.com/gestaoparceiros/api-contratos/internal/cliente"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Clientes   cliente.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Clientes: cliente.NewRepository()}
}

type contratoPayload struct {
	Nome           string     `json:"nome"`
	ClienteID      *uuid.UUID `json:"clienteId"`
	ValorTotal     *float64   `json:"valorTotal"`
	Status         string     `json:"status"`
	DataFim        *time.Time `json:"dataFim"`
	Responsavel    string     `json:"responsavel"`
	FormaPagamento string     `json:"formaPagamento"`
}

// GET /api/contracts
// Filtros: clienteId, status, dataInicio, dataFim (ISO). A lista é sempre
// restrita ao parceiro do usuário via join com clientes.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var f Filtros
	if v := r.URL.Query().Get("clienteId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.ClienteID = &id
		}
	}
	if v := r.URL.Query().Get("status"); v != "" {
		if s := Status(v); s.Valida() {
			f.Status = &s
		}
	}
	if v := r.URL.Query().Get("dataInicio"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.DataInicio = &t
		}
	}
	if v := r.URL.Query().Get("dataFim"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.DataFim = &t
		}
	}

	contratos, err := h.Repository.Listar(h.DB, autorizacao.EscopoContratos(u), f)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(contratos)
}

// POST /api/contracts
// O parceiro dono é o do cliente; a guarda de criação roda sobre ele.
// Contrato nasce com ValorFaturado zero e Saldo igual ao ValorTotal.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var in contratoPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}
	if in.Nome == "" || in.ClienteID == nil || in.ValorTotal == nil || in.DataFim == nil {
		apierro.Escrever(w, apierro.Validacao("nome, clienteId, valorTotal e dataFim são obrigatórios"))
		return
	}
	if *in.ValorTotal < 0 {
		apierro.Escrever(w, apierro.Validacao("valorTotal não pode ser negativo"))
		return
	}

	cli, err := h.Clientes.BuscarPorID(h.DB, *in.ClienteID)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("cliente"))
		return
	}
	if !autorizacao.PodeCriarParaParceiro(u, &cli.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	c := Contrato{
		Nome:           in.Nome,
		ClienteID:      cli.ID,
		ValorTotal:     *in.ValorTotal,
		ValorFaturado:  0,
		Saldo:          *in.ValorTotal,
		Status:         StatusAtivo,
		DataFim:        *in.DataFim,
		Responsavel:    in.Responsavel,
		FormaPagamento: PagamentoParcelado,
	}
	if in.Status != "" {
		s := Status(in.Status)
		if !s.Valida() {
			apierro.Escrever(w, apierro.Validacao("status de contrato inválido"))
			return
		}
		c.Status = s
	}
	if in.FormaPagamento != "" {
		if in.FormaPagamento != PagamentoAVista && in.FormaPagamento != PagamentoParcelado {
			apierro.Escrever(w, apierro.Validacao("forma de pagamento inválida"))
			return
		}
		c.FormaPagamento = in.FormaPagamento
	}

	if err := h.Repository.Criar(h.DB, &c); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

// GET /api/contracts/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	c, err := h.buscarComGuarda(w, r, u)
	if err != nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// PUT /api/contracts/{id}
// Alterar valorTotal re-deriva o saldo contra o ValorFaturado corrente.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	c, err := h.buscarComGuarda(w, r, u)
	if err != nil {
		return
	}

	var in contratoPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}

	if in.Nome != "" {
		c.Nome = in.Nome
	}
	if in.ValorTotal != nil {
		if *in.ValorTotal < 0 {
			apierro.Escrever(w, apierro.Validacao("valorTotal não pode ser negativo"))
			return
		}
		c.ValorTotal = *in.ValorTotal
	}
	if in.Status != "" {
		s := Status(in.Status)
		if !s.Valida() {
			apierro.Escrever(w, apierro.Validacao("status de contrato inválido"))
			return
		}
		c.Status = s
	}
	if in.DataFim != nil {
		c.DataFim = *in.DataFim
	}
	if in.Responsavel != "" {
		c.Responsavel = in.Responsavel
	}

	c.Saldo = c.ValorTotal - c.ValorFaturado

	if err := h.Repository.Salvar(h.DB, c); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// DELETE /api/contracts/{id}
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	c, err := h.buscarComGuarda(w, r, u)
	if err != nil {
		return
	}

	if err := h.Repository.Deletar(h.DB, c.ID); err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "contrato removido com sucesso"})
}

// buscarComGuarda resolve {id}, carrega o contrato com cliente e aplica a
// guarda pontual de parceiro. Em caso de falha a resposta já foi escrita.
func (h *Handler) buscarComGuarda(w http.ResponseWriter, r *http.Request, u *usuario.Usuario) (*Contrato, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		err = apierro.Validacao("ID de contrato inválido")
		apierro.Escrever(w, err)
		return nil, err
	}

	c, err := h.Repository.BuscarPorID(h.DB, id)
	if err != nil {
		err = apierro.NaoEncontrado("contrato")
		apierro.Escrever(w, err)
		return nil, err
	}
	if c.Cliente == nil {
		// Contrato sem cliente resolvível não tem parceiro; bloquear em vez
		// de assumir um padrão.
		apierro.Escrever(w, apierro.ErrInconsistencia)
		return nil, apierro.ErrInconsistencia
	}
	if !autorizacao.PodeAcessarRecurso(u, c.Cliente.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return nil, apierro.ErrAcessoNegado
	}
	return c, nil
}
