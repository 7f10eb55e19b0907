package autorizacao

import (
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/usuario"
)

// Escopo é um refinador de consulta aplicável via gorm.DB.Scopes.
type Escopo func(*gorm.DB) *gorm.DB

// NegarTudo é o escopo explícito de "nenhuma linha". Usado como salvaguarda
// para usuários não globais sem parceiro; nomeado para manter a intenção
// auditável em vez de um predicado sempre-falso mágico.
func NegarTudo() Escopo {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("1 = 0")
	}
}

// FiltroParceiro restringe a consulta às linhas do parceiro do usuário,
// comparando a coluna indicada (ex.: "clientes.parceiro_id" após o join
// pela cadeia de posse). Admin global passa sem restrição; usuário não
// global sem parceiro não enxerga linha alguma.
func FiltroParceiro(u *usuario.Usuario, coluna string) Escopo {
	return func(db *gorm.DB) *gorm.DB {
		if u.Role == usuario.RoleAdminGlobal {
			return db
		}
		if u.ParceiroID == nil {
			return NegarTudo()(db)
		}
		return db.Where(coluna+" = ?", *u.ParceiroID)
	}
}

// EscopoParceiro é o filtro para entidades com coluna parceiro_id direta
// (clientes, consultores).
func EscopoParceiro(u *usuario.Usuario) Escopo {
	return FiltroParceiro(u, "parceiro_id")
}

// EscopoContratos filtra contratos pelo parceiro transitivo via clientes.
// Contratos não têm parceiro_id próprio; a posse vem do cliente.
func EscopoContratos(u *usuario.Usuario) Escopo {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("JOIN clientes ON clientes.id = contratos.cliente_id")
		return FiltroParceiro(u, "clientes.parceiro_id")(db)
	}
}

// EscopoParcelas filtra parcelas pelo parceiro transitivo via
// contratos -> clientes.
func EscopoParcelas(u *usuario.Usuario) Escopo {
	return func(db *gorm.DB) *gorm.DB {
		db = db.
			Joins("JOIN contratos ON contratos.id = parcelas.contrato_id").
			Joins("JOIN clientes ON clientes.id = contratos.cliente_id")
		return FiltroParceiro(u, "clientes.parceiro_id")(db)
	}
}

// EscopoTimesheets filtra timesheets pelo parceiro transitivo via
// contratos -> clientes.
func EscopoTimesheets(u *usuario.Usuario) Escopo {
	return func(db *gorm.DB) *gorm.DB {
		db = db.
			Joins("JOIN contratos ON contratos.id = timesheets.contrato_id").
			Joins("JOIN clientes ON clientes.id = contratos.cliente_id")
		return FiltroParceiro(u, "clientes.parceiro_id")(db)
	}
}

// EscopoFeedbacks filtra feedbacks pelo parceiro do consultor avaliado.
func EscopoFeedbacks(u *usuario.Usuario) Escopo {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("JOIN consultores ON consultores.id = feedbacks_consultores.consultor_id")
		return FiltroParceiro(u, "consultores.parceiro_id")(db)
	}
}
