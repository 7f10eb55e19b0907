package cliente

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/apierro"
	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

type clientePayload struct {
	Nome        string     `json:"nome"`
	ParceiroID  *uuid.UUID `json:"parceiroId"`
	CNPJ        string     `json:"cnpj"`
	RazaoSocial string     `json:"razaoSocial"`
}

// GET /api/clients
// A lista é sempre restrita ao parceiro do usuário (admin global vê tudo).
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	clientes, err := h.Repository.Listar(h.DB, autorizacao.EscopoParceiro(u))
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(clientes)
}

// POST /api/clients
// O parceiro do cliente é atribuído automaticamente: usuários não globais
// sempre criam para o próprio parceiro, mesmo que o payload diga outra coisa.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var in clientePayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}
	if in.Nome == "" {
		apierro.Escrever(w, apierro.Validacao("o campo 'nome' é obrigatório"))
		return
	}

	parceiroID := autorizacao.AtribuirParceiro(u, in.ParceiroID)
	if parceiroID == nil {
		apierro.Escrever(w, apierro.Validacao("parceiroId é obrigatório"))
		return
	}
	if !autorizacao.PodeCriarParaParceiro(u, parceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	// Parceiro precisa existir; referência quebrada é erro do chamador.
	var existe int64
	if err := h.DB.Table("parceiros").Where("id = ?", *parceiroID).Count(&existe).Error; err != nil {
		apierro.Escrever(w, err)
		return
	}
	if existe == 0 {
		apierro.Escrever(w, apierro.NaoEncontrado("parceiro"))
		return
	}

	c := Cliente{
		Nome:        in.Nome,
		ParceiroID:  *parceiroID,
		CNPJ:        in.CNPJ,
		RazaoSocial: in.RazaoSocial,
	}
	if err := h.Repository.Criar(h.DB, &c); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

// GET /api/clients/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierro.Escrever(w, apierro.Validacao("ID de cliente inválido"))
		return
	}

	c, err := h.Repository.BuscarPorID(h.DB, id)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("cliente"))
		return
	}
	if !autorizacao.PodeAcessarRecurso(u, c.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// PUT /api/clients/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierro.Escrever(w, apierro.Validacao("ID de cliente inválido"))
		return
	}

	c, err := h.Repository.BuscarPorID(h.DB, id)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("cliente"))
		return
	}
	if !autorizacao.PodeAcessarRecurso(u, c.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	var in clientePayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}

	if in.Nome != "" {
		c.Nome = in.Nome
	}
	if in.CNPJ != "" {
		c.CNPJ = in.CNPJ
	}
	if in.RazaoSocial != "" {
		c.RazaoSocial = in.RazaoSocial
	}

	if err := h.Repository.Salvar(h.DB, c); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// DELETE /api/clients/{id}
// Bloqueado enquanto o cliente tiver contratos.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierro.Escrever(w, apierro.Validacao("ID de cliente inválido"))
		return
	}

	c, err := h.Repository.BuscarPorID(h.DB, id)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("cliente"))
		return
	}
	if !autorizacao.PodeAcessarRecurso(u, c.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	contratos, err := h.Repository.ContarContratos(h.DB, id)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}
	if contratos > 0 {
		apierro.Escrever(w, apierro.Validacao("não é possível excluir cliente com contratos associados"))
		return
	}

	if err := h.Repository.Deletar(h.DB, id); err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "cliente removido com sucesso"})
}
