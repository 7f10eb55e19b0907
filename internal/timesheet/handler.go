package timesheet

import (
	"encoding/json"
	"net/http"
	"time"

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
	Contratos   contrato.Repository
	Consultores consultor.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:          db,
		Repo:        NewRepository(),
		Contratos:   contrato.NewRepository(),
		Consultores: consultor.NewRepository(),
	}
}

type timesheetPayload struct {
	ContratoID    *uuid.UUID `json:"contratoId"`
	ConsultorID   *uuid.UUID `json:"consultorId"`
	ArquivoURL    string     `json:"arquivoUrl"`
	Horas         *float64   `json:"horas"`
	Aprovador     string     `json:"aprovador"`
	DataAprovacao *time.Time `json:"dataAprovacao"`
	Aprovado      *bool      `json:"aprovado"`
}

// GET /api/timesheets
// Query param opcional: contratoId.
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

	timesheets, err := h.Repo.Listar(h.DB, autorizacao.EscopoTimesheets(u), contratoID)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(timesheets)
}

// POST /api/timesheets
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var in timesheetPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}
	if in.ContratoID == nil || in.Horas == nil {
		apierro.Escrever(w, apierro.Validacao("contratoId e horas são obrigatórios"))
		return
	}
	if *in.Horas < 0 {
		apierro.Escrever(w, apierro.Validacao("horas não pode ser negativo"))
		return
	}

	ct, err := h.Contratos.BuscarPorID(h.DB, *in.ContratoID)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("contrato"))
		return
	}
	if ct.Cliente == nil {
		apierro.Escrever(w, apierro.ErrInconsistencia)
		return
	}
	if !autorizacao.PodeCriarParaParceiro(u, &ct.Cliente.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	if in.ConsultorID != nil {
		if err := h.validarConsultor(*in.ConsultorID, ct.ID); err != nil {
			apierro.Escrever(w, err)
			return
		}
	}

	t := Timesheet{
		ContratoID:    ct.ID,
		ConsultorID:   in.ConsultorID,
		ArquivoURL:    in.ArquivoURL,
		Horas:         *in.Horas,
		Aprovador:     in.Aprovador,
		DataAprovacao: in.DataAprovacao,
	}
	if in.Aprovado != nil {
		t.Aprovado = *in.Aprovado
	}
	if err := h.Repo.Criar(h.DB, &t); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(t)
}

// GET /api/timesheets/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	t, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}

// PUT /api/timesheets/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	t, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	var in timesheetPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}

	if in.Horas != nil {
		if *in.Horas < 0 {
			apierro.Escrever(w, apierro.Validacao("horas não pode ser negativo"))
			return
		}
		t.Horas = *in.Horas
	}
	if in.ConsultorID != nil {
		if err := h.validarConsultor(*in.ConsultorID, t.ContratoID); err != nil {
			apierro.Escrever(w, err)
			return
		}
		t.ConsultorID = in.ConsultorID
	}
	if in.ArquivoURL != "" {
		t.ArquivoURL = in.ArquivoURL
	}
	if in.Aprovador != "" {
		t.Aprovador = in.Aprovador
	}
	if in.DataAprovacao != nil {
		t.DataAprovacao = in.DataAprovacao
	}
	if in.Aprovado != nil {
		t.Aprovado = *in.Aprovado
	}

	if err := h.Repo.Salvar(h.DB, t); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}

// DELETE /api/timesheets/{id}
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	t, ok := h.buscarComGuarda(w, r, u)
	if !ok {
		return
	}

	if err := h.Repo.Deletar(h.DB, t.ID); err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "timesheet removido com sucesso"})
}

// validarConsultor exige que o consultor exista e esteja alocado no
// contrato do timesheet.
func (h *Handler) validarConsultor(consultorID, contratoID uuid.UUID) error {
	c, err := h.Consultores.BuscarPorID(h.DB, consultorID)
	if err != nil {
		return apierro.NaoEncontrado("consultor")
	}
	if c.ContratoID != contratoID {
		return apierro.Validacao("consultor não está alocado neste contrato")
	}
	return nil
}

// buscarComGuarda resolve o timesheet e aplica a guarda de parceiro
// transitiva pelo cliente do contrato.
func (h *Handler) buscarComGuarda(w http.ResponseWriter, r *http.Request, u *usuario.Usuario) (*Timesheet, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		apierro.Escrever(w, apierro.Validacao("ID de timesheet inválido"))
		return nil, false
	}

	t, err := h.Repo.BuscarPorID(h.DB, id)
	if err != nil {
		apierro.Escrever(w, apierro.NaoEncontrado("timesheet"))
		return nil, false
	}

	ct, err := h.Contratos.BuscarPorID(h.DB, t.ContratoID)
	if err != nil || ct.Cliente == nil {
		apierro.Escrever(w, apierro.ErrInconsistencia)
		return nil, false
	}
	if !autorizacao.PodeAcessarRecurso(u, ct.Cliente.ParceiroID) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return nil, false
	}
	return t, true
}
