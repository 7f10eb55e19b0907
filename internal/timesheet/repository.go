package timesheet

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
)

type Repository interface {
	Criar(db *gorm.DB, t *Timesheet) error
	BuscarPorID(db *gorm.DB, id uuid.UUID) (*Timesheet, error)
	Listar(db *gorm.DB, escopo autorizacao.Escopo, contratoID *uuid.UUID) ([]Timesheet, error)
	Salvar(db *gorm.DB, t *Timesheet) error
	Deletar(db *gorm.DB, id uuid.UUID) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, t *Timesheet) error {
	return db.Create(t).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uuid.UUID) (*Timesheet, error) {
	var t Timesheet
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, escopo autorizacao.Escopo, contratoID *uuid.UUID) ([]Timesheet, error) {
	q := db.Model(&Timesheet{}).Scopes(escopo)
	if contratoID != nil {
		q = q.Where("timesheets.contrato_id = ?", *contratoID)
	}
	var timesheets []Timesheet
	err := q.Order("timesheets.enviado_em DESC").Find(&timesheets).Error
	return timesheets, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, t *Timesheet) error {
	return db.Save(t).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uuid.UUID) error {
	res := db.Delete(&Timesheet{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
