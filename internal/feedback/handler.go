package feedback

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/apierro"
	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
	"github.com/gestaoparceiros/api-contratos/internal/consultor"
	"github.com/gestaoparceiros/api-contratos/internal/contrato"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
)

type Handler struct {
	DB          *gorm.DB
	Repo        Repository
	Consultores consultor.Repository
	Contratos   contrato.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:          db,
		Repo:        NewRepository(),
		Consultores: consultor.NewRepository(),
		Contratos:   contrato.NewRepository(),
	}
}

type feedbackPayload struct {
	ConsultorID *uuid.UUID `json:"consultorId"`
	ContratoID  *uuid.UUID `json:"contratoId"`
	Comentario  string     `json:"comentario"`
	Nota        *int       `json:"nota"`
}

// GET /api/feedbacks
// Query params opcionais: consultorId, contratoId.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var filtros Filtros
	if v := r.URL.Query().Get("consultorId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filtros.ConsultorID = &id
		}
	}
	if v := r.URL.Query().Get("contratoId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filtros.ContratoID = &id
		}
	}

	feedbacks, err := h.Repo.Listar(h.DB, autorizacao.EscopoFeedbacks(u), filtros)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(feedbacks)
}

// POST /api/feedbacks
// O autor é sempre o usuário autenticado. Quando contratoId vem no
// payload, o consultor precisa estar alocado nesse contrato.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var in feedbackPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}
	if in.ConsultorID == nil || in.Comentario == "" {
		apierro.Escrever(w, apierro.Validacao("consultorId e comentario são obrigatórios"))
		return
	}
	if in.Nota != nil && (*in.Nota < 0 || *in.Nota > 100) {
		apierro.Escrever(w, apierro.Validacao("nota deve estar entre 0 e 100"))
		return
	}

	c, err := h.Consultores.BuscarPorID(h.DB, *in.ConsultorID)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("consultor"))
		return
	}
	if !autorizacao.PodeAcessarRecurso(u, c.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	if in.ContratoID != nil {
		if _, err := h.Contratos.BuscarPorID(h.DB, *in.ContratoID); err != nil {
			apierro.Escrever(w, apierro.NaoEncontrado("contrato"))
			return
		}
		if c.ContratoID != *in.ContratoID {
			apierro.Escrever(w, apierro.Validacao("consultor não está alocado neste contrato"))
			return
		}
	}

	f := FeedbackConsultor{
		ConsultorID: c.ID,
		UsuarioID:   u.ID,
		ContratoID:  in.ContratoID,
		Comentario:  in.Comentario,
		Nota:        in.Nota,
	}
	if err := h.Repo.Criar(h.DB, &f); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(f)
}

// GET /api/feedbacks/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	f, _, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f)
}

// PUT /api/feedbacks/{id}
// Apenas o autor pode editar o próprio feedback.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	f, _, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}
	if f.UsuarioID != u.ID {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	var in feedbackPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}
	if in.Nota != nil && (*in.Nota < 0 || *in.Nota > 100) {
		apierro.Escrever(w, apierro.Validacao("nota deve estar entre 0 e 100"))
		return
	}

	if in.Comentario != "" {
		f.Comentario = in.Comentario
	}
	if in.Nota != nil {
		f.Nota = in.Nota
	}

	if err := h.Repo.Salvar(h.DB, f); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f)
}

// DELETE /api/feedbacks/{id}
// O autor ou um administrador podem remover.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	f, _, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}
	if f.UsuarioID != u.ID && u.Role != usuario.RoleAdminGlobal && u.Role != usuario.RoleAdminParceiro {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	if err := h.Repo.Deletar(h.DB, f.ID); err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "feedback removido com sucesso"})
}

// buscarComGuarda resolve o feedback e aplica a guarda de parceiro via
// consultor avaliado. Recurso fora do escopo responde 403, não 404.
func (h *Handler) buscarComGuarda(w http.ResponseWriter, r *http.Request, u *usuario.Usuario) (*FeedbackConsultor, *consultor.Consultor, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierro.Escrever(w, apierro.Validacao("ID de feedback inválido"))
		return nil, nil, false
	}

	f, err := h.Repo.BuscarPorID(h.DB, id)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("feedback"))
		return nil, nil, false
	}

	c, err := h.Consultores.BuscarPorID(h.DB, f.ConsultorID)
	if err != nil {
		apierro.Escrever(w, apierro.ErrInconsistencia)
		return nil, nil, false
	}
	if !autorizacao.PodeAcessarRecurso(u, c.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return nil, nil, false
	}
	return f, c, true
}
