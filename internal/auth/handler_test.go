package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
	"github.com/gestaoparceiros/api-contratos/internal/cliente"
	"github.com/gestaoparceiros/api-contratos/internal/parceiro"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
	"github.com/gestaoparceiros/api-contratos/internal/utils"
)

func abrirBanco(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&parceiro.Parceiro{},
		&cliente.Cliente{},
		&usuario.Usuario{},
	))
	return db
}

func semearUsuario(t *testing.T, db *gorm.DB, username, senha string, role usuario.Role, parceiroID *uuid.UUID, ativo bool) *usuario.Usuario {
	t.Helper()
	hash, err := utils.HashSenha(senha)
	require.NoError(t, err)
	u := usuario.Usuario{
		Username:   username,
		Email:      username + "@exemplo.com",
		SenhaHash:  hash,
		Role:       role,
		ParceiroID: parceiroID,
		Ativo:      ativo,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func requisicaoJSON(t *testing.T, metodo, alvo string, corpo interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(corpo))
	return httptest.NewRequest(metodo, alvo, &buf)
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")
	db := abrirBanco(t)
	h := NewHandler(db)

	semearUsuario(t, db, "maria", "senha123", usuario.RoleAdminGlobal, nil, true)
	semearUsuario(t, db, "desativado", "senha123", usuario.RoleUserParceiro, nil, false)

	t.Run("credenciais válidas devolvem token utilizável", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Login(rec, requisicaoJSON(t, "POST", "/api/auth/login", loginPayload{Username: "maria", Senha: "senha123"}))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotEmpty(t, resp.Token)

		claims, err := ValidarToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, string(usuario.RoleAdminGlobal), claims.Role)
	})

	t.Run("senha errada responde 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Login(rec, requisicaoJSON(t, "POST", "/api/auth/login", loginPayload{Username: "maria", Senha: "outra"}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("usuário inexistente responde 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Login(rec, requisicaoJSON(t, "POST", "/api/auth/login", loginPayload{Username: "ninguem", Senha: "x"}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("usuário desativado responde o mesmo 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Login(rec, requisicaoJSON(t, "POST", "/api/auth/login", loginPayload{Username: "desativado", Senha: "senha123"}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRegister(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")
	db := abrirBanco(t)
	h := NewHandler(db)

	p := parceiro.Parceiro{Nome: "Parceiro A", Ativo: true}
	require.NoError(t, db.Create(&p).Error)
	outroParceiro := parceiro.Parceiro{Nome: "Parceiro B", Ativo: true}
	require.NoError(t, db.Create(&outroParceiro).Error)

	cl := cliente.Cliente{Nome: "Cliente A", ParceiroID: p.ID}
	require.NoError(t, db.Create(&cl).Error)

	admGlobal := semearUsuario(t, db, "root", "senha123", usuario.RoleAdminGlobal, nil, true)
	admParceiro := semearUsuario(t, db, "gestor", "senha123", usuario.RoleAdminParceiro, &p.ID, true)
	comum := semearUsuario(t, db, "comum", "senha123", usuario.RoleUserParceiro, &p.ID, true)

	registrar := func(atuante *usuario.Usuario, corpo registerPayload) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := requisicaoJSON(t, "POST", "/api/auth/register", corpo)
		req = req.WithContext(autorizacao.ComUsuario(req.Context(), atuante))
		h.Register(rec, req)
		return rec
	}

	t.Run("usuário comum não provisiona", func(t *testing.T) {
		rec := registrar(comum, registerPayload{Username: "novo", Email: "n@e.com", Senha: "x", Role: "user_partner"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role ausente falha na validação", func(t *testing.T) {
		rec := registrar(admGlobal, registerPayload{Username: "novo", Email: "n@e.com", Senha: "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("vínculo client sem clienteId falha na validação", func(t *testing.T) {
		rec := registrar(admGlobal, registerPayload{
			Username: "novo", Email: "n@e.com", Senha: "x",
			Role: "user_partner", TipoVinculo: "client",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cliente inexistente responde 404", func(t *testing.T) {
		fantasma := uuid.New()
		rec := registrar(admGlobal, registerPayload{
			Username: "novo", Email: "n@e.com", Senha: "x",
			Role: "user_partner", TipoVinculo: "client", ClienteID: &fantasma,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("vínculo client resolve o parceiro pelo cliente", func(t *testing.T) {
		rec := registrar(admGlobal, registerPayload{
			Username: "via-cliente", Email: "vc@e.com", Senha: "x",
			Role: "user_partner", TipoVinculo: "client", ClienteID: &cl.ID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var criado usuario.Usuario
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&criado))
		require.NotNil(t, criado.ParceiroID)
		assert.Equal(t, p.ID, *criado.ParceiroID)
	})

	t.Run("admin de parceiro tem o próprio parceiro forçado", func(t *testing.T) {
		rec := registrar(admParceiro, registerPayload{
			Username: "forcado", Email: "f@e.com", Senha: "x",
			Role: "user_partner", ParceiroID: &outroParceiro.ID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var criado usuario.Usuario
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&criado))
		require.NotNil(t, criado.ParceiroID)
		assert.Equal(t, p.ID, *criado.ParceiroID)
	})

	t.Run("admin de parceiro não vincula cliente de outro parceiro", func(t *testing.T) {
		clForaDoEscopo := cliente.Cliente{Nome: "Cliente B", ParceiroID: outroParceiro.ID}
		require.NoError(t, db.Create(&clForaDoEscopo).Error)

		rec := registrar(admParceiro, registerPayload{
			Username: "invasor", Email: "i@e.com", Senha: "x",
			Role: "user_partner", TipoVinculo: "client", ClienteID: &clForaDoEscopo.ID,
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		var n int64
		require.NoError(t, db.Model(&usuario.Usuario{}).Where("username = ?", "invasor").Count(&n).Error)
		assert.EqualValues(t, 0, n)
	})

	t.Run("username duplicado responde 409", func(t *testing.T) {
		corpo := registerPayload{
			Username: "repetido", Email: "r@e.com", Senha: "x",
			Role: "user_partner", ParceiroID: &p.ID,
		}
		require.Equal(t, http.StatusCreated, registrar(admGlobal, corpo).Code)

		corpo.Email = "outro@e.com"
		assert.Equal(t, http.StatusConflict, registrar(admGlobal, corpo).Code)
	})

	t.Run("admin de parceiro não cria admin global", func(t *testing.T) {
		rec := registrar(admParceiro, registerPayload{
			Username: "escalada", Email: "e@e.com", Senha: "x", Role: "admin_global",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role não global exige parceiro", func(t *testing.T) {
		rec := registrar(admGlobal, registerPayload{
			Username: "sem-parceiro", Email: "sp@e.com", Senha: "x", Role: "user_partner",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMiddlewareAutenticacao(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")
	db := abrirBanco(t)

	ativo := semearUsuario(t, db, "ativo", "senha123", usuario.RoleAdminGlobal, nil, true)
	inativo := semearUsuario(t, db, "inativo", "senha123", usuario.RoleAdminGlobal, nil, false)

	var visto *usuario.Usuario
	proximo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		visto = autorizacao.UsuarioDoContexto(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	mw := MiddlewareAutenticacao(db, usuario.NewRepository())(proximo)

	chamar := func(authHeader string) *httptest.ResponseRecorder {
		visto = nil
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		mw.ServeHTTP(rec, req)
		return rec
	}

	t.Run("sem header responde 401", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, chamar("").Code)
	})

	t.Run("token inválido responde 401", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, chamar("Bearer lixo").Code)
	})

	t.Run("token de usuário ativo injeta o usuário no contexto", func(t *testing.T) {
		token, err := GerarToken(ativo)
		require.NoError(t, err)
		rec := chamar("Bearer " + token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, visto)
		assert.Equal(t, ativo.ID, visto.ID)
	})

	t.Run("token de usuário desativado é rejeitado", func(t *testing.T) {
		token, err := GerarToken(inativo)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, chamar("Bearer "+token).Code)
	})
}
