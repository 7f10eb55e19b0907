package feedback

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
)

// Filtros opcionais da listagem de feedbacks.
type Filtros struct {
	ConsultorID *uuid.UUID
	ContratoID  *uuid.UUID
}

type Repository interface {
	Criar(db *gorm.DB, f *FeedbackConsultor) error
	BuscarPorID(db *gorm.DB, id uuid.UUID) (*FeedbackConsultor, error)
	Listar(db *gorm.DB, escopo autorizacao.Escopo, f Filtros) ([]FeedbackConsultor, error)
	Salvar(db *gorm.DB, f *FeedbackConsultor) error
	Deletar(db *gorm.DB, id uuid.UUID) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, f *FeedbackConsultor) error {
	return db.Create(f).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uuid.UUID) (*FeedbackConsultor, error) {
	var f FeedbackConsultor
	if err := db.First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, escopo autorizacao.Escopo, f Filtros) ([]FeedbackConsultor, error) {
	q := db.Model(&FeedbackConsultor{}).Scopes(escopo)
	if f.ConsultorID != nil {
		q = q.Where("feedbacks_consultores.consultor_id = ?", *f.ConsultorID)
	}
	if f.ContratoID != nil {
		q = q.Where("feedbacks_consultores.contrato_id = ?", *f.ContratoID)
	}
	var feedbacks []FeedbackConsultor
	err := q.Order("feedbacks_consultores.created_at DESC").Find(&feedbacks).Error
	return feedbacks, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, f *FeedbackConsultor) error {
	return db.Save(f).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uuid.UUID) error {
	res := db.Delete(&FeedbackConsultor{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
