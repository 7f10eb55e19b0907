package consultor

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
)

type Repository interface {
	Criar(db *gorm.DB, c *Consultor) error
	BuscarPorID(db *gorm.DB, id uuid.UUID) (*Consultor, error)
	Listar(db *gorm.DB, escopo autorizacao.Escopo, contratoID *uuid.UUID) ([]Consultor, error)
	Salvar(db *gorm.DB, c *Consultor) error
	Deletar(db *gorm.DB, id uuid.UUID) error
	MediaFeedback(db *gorm.DB, consultorID uuid.UUID) (float64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, c *Consultor) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uuid.UUID) (*Consultor, error) {
	var c Consultor
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, escopo autorizacao.Escopo, contratoID *uuid.UUID) ([]Consultor, error) {
	q := db.Model(&Consultor{}).Scopes(escopo)
	if contratoID != nil {
		q = q.Where("contrato_id = ?", *contratoID)
	}
	var consultores []Consultor
	err := q.Order("nome ASC").Find(&consultores).Error
	return consultores, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, c *Consultor) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uuid.UUID) error {
	res := db.Delete(&Consultor{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MediaFeedback calcula o feedback médio do consultor sobre as notas não
// nulas. Derivado na leitura a partir das linhas de feedback; devolve 0
// quando não há notas.
func (r *repositoryImpl) MediaFeedback(db *gorm.DB, consultorID uuid.UUID) (float64, error) {
	var media float64
	err := db.Table("feedbacks_consultores").
		Where("consultor_id = ? AND nota IS NOT NULL", consultorID).
		Select("COALESCE(AVG(nota), 0)").
		Scan(&media).Error
	return media, err
}
