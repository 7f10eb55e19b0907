package contrato

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
)

// Filtros opcionais da listagem de contratos.
type Filtros struct {
	ClienteID  *uuid.UUID
	Status     *Status
	DataInicio *time.Time
	DataFim    *time.Time
}

type Repository interface {
	Criar(db *gorm.DB, c *Contrato) error
	BuscarPorID(db *gorm.DB, id uuid.UUID) (*Contrato, error)
	Listar(db *gorm.DB, escopo autorizacao.Escopo, f Filtros) ([]Contrato, error)
	Salvar(db *gorm.DB, c *Contrato) error
	Deletar(db *gorm.DB, id uuid.UUID) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, c *Contrato) error {
	return db.Create(c).Error
}

// BuscarPorID carrega o contrato com o cliente, necessário para as guardas
// de parceiro (contratos não têm parceiro_id próprio).
func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uuid.UUID) (*Contrato, error) {
	var c Contrato
	if err := db.Preload("Cliente").First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, escopo autorizacao.Escopo, f Filtros) ([]Contrato, error) {
	q := db.Model(&Contrato{}).Scopes(escopo)

	if f.ClienteID != nil {
		q = q.Where("contratos.cliente_id = ?", *f.ClienteID)
	}
	if f.Status != nil {
		q = q.Where("contratos.status = ?", *f.Status)
	}
	if f.DataInicio != nil {
		q = q.Where("contratos.data_fim >= ?", *f.DataInicio)
	}
	if f.DataFim != nil {
		q = q.Where("contratos.data_fim <= ?", *f.DataFim)
	}

	var contratos []Contrato
	err := q.Preload("Cliente").
		Order("contratos.created_at DESC").
		Find(&contratos).Error
	return contratos, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, c *Contrato) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uuid.UUID) error {
	res := db.Delete(&Contrato{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
