package auth

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/apierro"
	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
	"github.com/gestaoparceiros/api-contratos/internal/cliente"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
	"github.com/gestaoparceiros/api-contratos/internal/utils"
)

type Handler struct {
	DB       *gorm.DB
	Usuarios usuario.Repository
	Clientes cliente.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Usuarios: usuario.NewRepository(), Clientes: cliente.NewRepository()}
}

type loginPayload struct {
	Username string `json:"username"`
	Senha    string `json:"senha"`
}

type registerPayload struct {
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Senha       string     `json:"senha"`
	Role        string     `json:"role"`
	TipoVinculo string     `json:"tipoVinculo"`
	ParceiroID  *uuid.UUID `json:"parceiroId"`
	ClienteID   *uuid.UUID `json:"clienteId"`
}

// POST /api/auth/login
// Credencial errada, usuário inexistente e usuário desativado respondem
// o mesmo 401 para não vazar qual dos três ocorreu.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}
	if in.Username == "" || in.Senha == "" {
		apierro.Escrever(w, apierro.Validacao("username e senha são obrigatórios"))
		return
	}

	u, err := h.Usuarios.BuscarPorUsername(h.DB, in.Username)
	if err != nil || !u.Ativo || !utils.VerificarSenha(u.SenhaHash, in.Senha) {
		apierro.Escrever(w, apierro.ErrNaoAutenticado)
		return
	}

	token, err := GerarToken(u)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{"usuario": u.Username, "role": u.Role}).Info("login efetuado")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"token":   token,
		"usuario": u,
	})
}

// POST /api/auth/register
// Provisionamento de usuários por administradores; não há auto-cadastro
// público. O parceiro do novo usuário vem do cliente quando o vínculo é
// client, do parceiroId explícito caso contrário, e sempre passa pela
// atribuição automática do usuário atuante.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}
	if !autorizacao.PodeGerenciarUsuarios(u) {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	var in registerPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		apierro.Escrever(w, apierro.Validacao("JSON mal formado"))
		return
	}
	if in.Username == "" || in.Email == "" || in.Senha == "" {
		apierro.Escrever(w, apierro.Validacao("username, email e senha são obrigatórios"))
		return
	}

	role := usuario.Role(in.Role)
	if in.Role == "" || !role.Valida() {
		apierro.Escrever(w, apierro.Validacao("role é obrigatório e deve ser um valor conhecido"))
		return
	}
	if role == usuario.RoleAdminGlobal && u.Role != usuario.RoleAdminGlobal {
		apierro.Escrever(w, apierro.ErrAcessoNegado)
		return
	}

	vinculo := usuario.TipoVinculo(in.TipoVinculo)
	if in.TipoVinculo == "" {
		vinculo = usuario.VinculoParceiro
	}
	if !vinculo.Valida() {
		apierro.Escrever(w, apierro.Validacao("tipoVinculo deve ser um valor conhecido"))
		return
	}

	parceiroID := in.ParceiroID
	if vinculo == usuario.VinculoCliente {
		if in.ClienteID == nil {
			apierro.Escrever(w, apierro.Validacao("clienteId é obrigatório para vínculo client"))
			return
		}
		cl, err := h.Clientes.BuscarPorID(h.DB, *in.ClienteID)
		if err != nil {
			apierro.Escrever(w, apierro.NaoEncontrado("cliente"))
			return
		}
		// O cliente precisa pertencer ao parceiro do atuante; sem esta
		// guarda a atribuição automática manteria um ClienteID de outro
		// parceiro sob o parceiro do admin.
		if !autorizacao.PodeAcessarRecurso(u, cl.ParceiroID) {
			apierro.Escrever(w, apierro.ErrAcessoNegado)
			return
		}
		parceiroID = &cl.ParceiroID
	}

	parceiroID = autorizacao.AtribuirParceiro(u, parceiroID)
	if role != usuario.RoleAdminGlobal && parceiroID == nil {
		apierro.Escrever(w, apierro.Validacao("parceiroId é obrigatório para usuários não globais"))
		return
	}

	hash, err := utils.HashSenha(in.Senha)
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	novo := usuario.Usuario{
		Username:    in.Username,
		Email:       in.Email,
		SenhaHash:   hash,
		Role:        role,
		TipoVinculo: vinculo,
		ParceiroID:  parceiroID,
		ClienteID:   in.ClienteID,
		Ativo:       true,
	}
	if err := h.Usuarios.Criar(h.DB, &novo); err != nil {
		apierro.Escrever(w, apierro.DoGorm(err))
		return
	}

	logrus.WithFields(logrus.Fields{"usuario": novo.Username, "role": novo.Role, "por": u.Username}).Info("usuário provisionado")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(novo)
}

// GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}
