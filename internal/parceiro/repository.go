package parceiro

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vinculos conta os registros que referenciam um parceiro. Usado para
// bloquear a exclusão de parceiros com dados relacionados.
type Vinculos struct {
	Clientes    int64 `json:"clientes"`
	Consultores int64 `json:"consultores"`
	Usuarios    int64 `json:"usuarios"`
}

func (v Vinculos) Vazio() bool {
	return v.Clientes == 0 && v.Consultores == 0 && v.Usuarios == 0
}

type Repository interface {
	Criar(db *gorm.DB, p *Parceiro) error
	BuscarPorID(db *gorm.DB, id uuid.UUID) (*Parceiro, error)
	ListarTodos(db *gorm.DB) ([]Parceiro, error)
	Salvar(db *gorm.DB, p *Parceiro) error
	Deletar(db *gorm.DB, id uuid.UUID) error
	ContarVinculos(db *gorm.DB, id uuid.UUID) (Vinculos, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, p *Parceiro) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uuid.UUID) (*Parceiro, error) {
	var p Parceiro
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Parceiro, error) {
	var parceiros []Parceiro
	err := db.Order("nome ASC").Find(&parceiros).Error
	return parceiros, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Parceiro) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uuid.UUID) error {
	res := db.Delete(&Parceiro{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) ContarVinculos(db *gorm.DB, id uuid.UUID) (Vinculos, error) {
	var v Vinculos
	if err := db.Table("clientes").Where("parceiro_id = ?", id).Count(&v.Clientes).Error; err != nil {
		return v, err
	}
	if err := db.Table("consultores").Where("parceiro_id = ?", id).Count(&v.Consultores).Error; err != nil {
		return v, err
	}
	if err := db.Table("usuarios").Where("parceiro_id = ?", id).Count(&v.Usuarios).Error; err != nil {
		return v, err
	}
	return v, nil
}
