package autorizacao_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
	"github.com/gestaoparceiros/api-contratos/internal/cliente"
	"github.com/gestaoparceiros/api-contratos/internal/contrato"
	"github.com/gestaoparceiros/api-contratos/internal/parceiro"
	"github.com/gestaoparceiros/api-contratos/internal/parcela"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
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
		&contrato.Contrato{},
		&parcela.Parcela{},
	))
	return db
}

// semeia dois parceiros, cada um com um cliente, um contrato e uma
// parcela, e devolve os ids dos parceiros.
func semear(t *testing.T, db *gorm.DB) (uuid.UUID, uuid.UUID) {
	t.Helper()
	var ids []uuid.UUID
	for _, nome := range []string{"Parceiro A", "Parceiro B"} {
		p := parceiro.Parceiro{Nome: nome, Ativo: true}
		require.NoError(t, db.Create(&p).Error)

		c := cliente.Cliente{Nome: "Cliente " + nome, ParceiroID: p.ID}
		require.NoError(t, db.Create(&c).Error)

		ct := contrato.Contrato{
			Nome:       "Contrato " + nome,
			ClienteID:  c.ID,
			ValorTotal: 1000,
			Saldo:      1000,
			Status:     contrato.StatusAtivo,
			DataFim:    time.Now().AddDate(1, 0, 0),
		}
		require.NoError(t, db.Create(&ct).Error)

		pc := parcela.Parcela{ContratoID: ct.ID, Mes: "Jan/25", Valor: 500}
		require.NoError(t, db.Create(&pc).Error)

		ids = append(ids, p.ID)
	}
	return ids[0], ids[1]
}

func TestEscopoParceiroDireto(t *testing.T) {
	db := abrirBanco(t)
	parceiroA, _ := semear(t, db)

	contar := func(u *usuario.Usuario) int64 {
		var n int64
		require.NoError(t, db.Model(&cliente.Cliente{}).
			Scopes(autorizacao.EscopoParceiro(u)).
			Count(&n).Error)
		return n
	}

	t.Run("admin global vê todos os clientes", func(t *testing.T) {
		u := &usuario.Usuario{Role: usuario.RoleAdminGlobal}
		assert.EqualValues(t, 2, contar(u))
	})

	t.Run("usuário de parceiro vê só o próprio cliente", func(t *testing.T) {
		u := &usuario.Usuario{Role: usuario.RoleUserParceiro, ParceiroID: &parceiroA}
		assert.EqualValues(t, 1, contar(u))
	})

	t.Run("usuário não global sem parceiro não vê linha alguma", func(t *testing.T) {
		u := &usuario.Usuario{Role: usuario.RoleAdminParceiro, ParceiroID: nil}
		assert.EqualValues(t, 0, contar(u))
	})
}

func TestEscopoContratosTransitivo(t *testing.T) {
	db := abrirBanco(t)
	parceiroA, parceiroB := semear(t, db)

	contar := func(u *usuario.Usuario) int64 {
		var n int64
		require.NoError(t, db.Model(&contrato.Contrato{}).
			Scopes(autorizacao.EscopoContratos(u)).
			Count(&n).Error)
		return n
	}

	assert.EqualValues(t, 2, contar(&usuario.Usuario{Role: usuario.RoleAdminGlobal}))
	assert.EqualValues(t, 1, contar(&usuario.Usuario{Role: usuario.RoleUserParceiro, ParceiroID: &parceiroA}))
	assert.EqualValues(t, 1, contar(&usuario.Usuario{Role: usuario.RoleAdminParceiro, ParceiroID: &parceiroB}))
	assert.EqualValues(t, 0, contar(&usuario.Usuario{Role: usuario.RoleUserParceiro, ParceiroID: nil}))
}

func TestEscopoParcelasDuploJoin(t *testing.T) {
	db := abrirBanco(t)
	parceiroA, _ := semear(t, db)

	contar := func(u *usuario.Usuario) int64 {
		var n int64
		require.NoError(t, db.Model(&parcela.Parcela{}).
			Scopes(autorizacao.EscopoParcelas(u)).
			Count(&n).Error)
		return n
	}

	assert.EqualValues(t, 2, contar(&usuario.Usuario{Role: usuario.RoleAdminGlobal}))
	assert.EqualValues(t, 1, contar(&usuario.Usuario{Role: usuario.RoleUserParceiro, ParceiroID: &parceiroA}))
	assert.EqualValues(t, 0, contar(&usuario.Usuario{Role: usuario.RoleUserParceiro, ParceiroID: nil}))
}

func TestNegarTudo(t *testing.T) {
	db := abrirBanco(t)
	semear(t, db)

	var n int64
	require.NoError(t, db.Model(&cliente.Cliente{}).
		Scopes(autorizacao.NegarTudo()).
		Count(&n).Error)
	assert.EqualValues(t, 0, n)
}
