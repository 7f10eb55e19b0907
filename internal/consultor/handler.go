package consultor

import (
	"encoding/json"
	"net/http"

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
	Repo      Repository
	Contratos contrato.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repo: NewRepository(), Contratos: contrato.NewRepository()}
}

type consultorPayload struct {
	Nome       string     `json:"nome"`
	Cargo      string     `json:"cargo"`
	ContratoID *uuid.UUID `json:"contratoId"`
	FotoURL    string     `json:"fotoUrl"`
}

// GET /api/consultants
// Lista consultores agrupados por contrato, com feedback médio por
// consultor e por grupo. Query param opcional: contratoId.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var contratoID *uuid.UUID
	if v := r.URL.Query().Get("contratoId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			contratoID = &id
		}
	}

	consultores, err := h.Repo.Listar(h.DB, autorizacao.EscopoParceiro(u), contratoID)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	// Agrupa por contrato preservando a ordem de chegada.
	grupos := make(map[uuid.UUID]*GrupoContratoDTO)
	var ordem []uuid.UUID
	for _, c := range consultores {
		media, err := h.Repo.MediaFeedback(h.DB, c.ID)
		if err != nil {
			apierro.Escrever(w, err)
			return
		}
		g, ok := grupos[c.ContratoID]
		if !ok {
			ct, err := h.Contratos.BuscarPorID(h.DB, c.ContratoID)
			if err != nil {
				apierro.Escrever(w, apierro.ErrInconsistencia)
				return
			}
			clienteNome := ""
			if ct.Cliente != nil {
				clienteNome = ct.Cliente.Nome
			}
			g = &GrupoContratoDTO{
				ContratoID:   ct.ID,
				ContratoNome: ct.Nome,
				ClienteNome:  clienteNome,
			}
			grupos[c.ContratoID] = g
			ordem = append(ordem, c.ContratoID)
		}
		g.Consultores = append(g.Consultores, MontarConsultorDTO(c, media))
	}

	resultado := make([]GrupoContratoDTO, 0, len(ordem))
	for _, id := range ordem {
		g := grupos[id]
		g.Total = len(g.Consultores)
		var soma float64
		for _, dto := range g.Consultores {
			soma += dto.Feedback
		}
		if g.Total > 0 {
			g.MediaFeedback = soma / float64(g.Total)
		}
		resultado = append(resultado, *g)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"grupos": resultado})
}

// POST /api/consultants
// O parceiro do consultor é resolvido transitivamente pelo cliente do
// contrato e deve casar com ele; um cliente sem parceiro resolvível
// bloqueia a criação em vez de assumir um padrão.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var in consultorPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}
	if in.Nome == "" || in.Cargo == "" || in.ContratoID == nil {
		apierro.Escrever(w, apierro.Validacao("nome, cargo e contratoId são obrigatórios"))
		return
	}

	ct, err := h.Contratos.BuscarPorID(h.DB, *in.ContratoID)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("contrato"))
		return
	}
	if ct.Cliente == nil || ct.Cliente.ParceiroID == uuid.Nil {
		apierro.Escrever(w, apierro.ErrInconsistencia)
		return
	}
	if !autorizacao.PodeCriarParaParceiro(u, &ct.Cliente.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	c := Consultor{
		Nome:       in.Nome,
		Cargo:      in.Cargo,
		ContratoID: ct.ID,
		ParceiroID: ct.Cliente.ParceiroID,
		FotoURL:    in.FotoURL,
	}
	if err := h.Repo.Criar(h.DB, &c); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(MontarConsultorDTO(c, 0))
}

// GET /api/consultants/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	c, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	media, err := h.Repo.MediaFeedback(h.DB, c.ID)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(MontarConsultorDTO(*c, media))
}

// PUT /api/consultants/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	c, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	var in consultorPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}

	if in.Nome != "" {
		c.Nome = in.Nome
	}
	if in.Cargo != "" {
		c.Cargo = in.Cargo
	}
	if in.FotoURL != "" {
		c.FotoURL = in.FotoURL
	}

	if err := h.Repo.Salvar(h.DB, c); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	media, err := h.Repo.MediaFeedback(h.DB, c.ID)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(MontarConsultorDTO(*c, media))
}

// DELETE /api/consultants/{id}
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	c, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	if err := h.Repo.Deletar(h.DB, c.ID); err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "consultor removido com sucesso"})
}

func (h *Handler) buscarComGuarda(w http.ResponseWriter, r *http.Request, u *usuario.Usuario) (*Consultor, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierro.Escrever(w, apierro.Validacao("ID de consultor inválido"))
		return nil, false
	}

	c, err := h.Repo.BuscarPorID(h.DB, id)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("consultor"))
		return nil, false
	}
	if !autorizacao.PodeAcessarRecurso(u, c.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return nil, false
	}
	return c, true
}
