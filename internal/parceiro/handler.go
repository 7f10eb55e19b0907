package parceiro

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/apierro"
	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
)

// Handler expõe o CRUD de parceiros. Toda rota exige admin global:
// parceiros são a fronteira de tenancy e só a administração central
// os gerencia.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

type parceiroPayload struct {
	Nome        string `json:"nome"`
	Ativo       *bool  `json:"ativo"`
	Estrategico *bool  `json:"estrategico"`
	Status      string `json:"status"`
}

// GET /api/partners
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	if _, err := autorizacao.RequireAdminGlobal(r.Context()); err != nil {
		apierro.Escrever(w, err)
		return
	}

	parceiros, err := h.Repository.ListarTodos(h.DB)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(parceiros)
}

// POST /api/partners
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	if _, err := autorizacao.RequireAdminGlobal(r.Context()); err != nil {
		apierro.Escrever(w, err)
		return
	}

	var in parceiroPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}
	if in.Nome == "" {
		apierro.Escrever(w, apierro.Validacao("o campo 'nome' é obrigatório"))
		return
	}

	p := Parceiro{Nome: in.Nome, Ativo: true, Status: "active"}
	if in.Ativo != nil {
		p.Ativo = *in.Ativo
	}
	if in.Estrategico != nil {
		p.Estrategico = *in.Estrategico
	}
	if in.Status != "" {
		p.Status = in.Status
	}

	if err := h.Repository.Criar(h.DB, &p); err != nil {
		if apierro.DoGorm(err) == apierro.ErrConflito {
			apierro.Escrever(w, apierro.Conflito("parceiro com este nome já existe"))
			return
		}
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// GET /api/partners/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	if _, err := autorizacao.RequireAdminGlobal(r.Context()); err != nil {
		apierro.Escrever(w, err)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierro.Escrever(w, apierro.Validacao("ID de parceiro inválido"))
		return
	}

	p, err := h.Repository.BuscarPorID(h.DB, id)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("parceiro"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// PUT /api/partners/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	if _, err := autorizacao.RequireAdminGlobal(r.Context()); err != nil {
		apierro.Escrever(w, err)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierro.Escrever(w, apierro.Validacao("ID de parceiro inválido"))
		return
	}

	p, err := h.Repository.BuscarPorID(h.DB, id)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("parceiro"))
		return
	}

	var in parceiroPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}

	if in.Nome != "" {
		p.Nome = in.Nome
	}
	if in.Ativo != nil {
		p.Ativo = *in.Ativo
	}
	if in.Estrategico != nil {
		p.Estrategico = *in.Estrategico
	}
	if in.Status != "" {
		p.Status = in.Status
	}

	if err := h.Repository.Salvar(h.DB, p); err != nil {
		if apierro.DoGorm(err) == apierro.ErrConflito {
			apierro.Escrever(w, apierro.Conflito("parceiro com este nome já existe"))
			return
		}
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// DELETE /api/partners/{id}
// A exclusão é bloqueada enquanto houver clientes, consultores ou
// usuários vinculados ao parceiro.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	if _, err := autorizacao.RequireAdminGlobal(r.Context()); err != nil {
		apierro.Escrever(w, err)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierro.Escrever(w, apierro.Validacao("ID de parceiro inválido"))
		return
	}

	if _, err := h.Repository.BuscarPorID(h.DB, id); err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("parceiro"))
		return
	}

	vinculos, err := h.Repository.ContarVinculos(h.DB, id)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}
	if !vinculos.Vazio() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error":    "não é possível deletar parceiro com dados relacionados",
			"vinculos": vinculos,
		})
		return
	}

	if err := h.Repository.Deletar(h.DB, id); err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "parceiro removido com sucesso"})
}
