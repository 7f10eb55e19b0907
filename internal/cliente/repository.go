package cliente

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
)

type Repository interface {
	Criar(db *gorm.DB, c *Cliente) error
	BuscarPorID(db *gorm.DB, id uuid.UUID) (*Cliente, error)
	Listar(db *gorm.DB, escopo autorizacao.Escopo) ([]Cliente, error)
	Salvar(db *gorm.DB, c *Cliente) error
	Deletar(db *gorm.DB, id uuid.UUID) error
	ContarContratos(db *gorm.DB, id uuid.UUID) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, c *Cliente) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uuid.UUID) (*Cliente, error) {
	var c Cliente
	if err := db.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, escopo autorizacao.Escopo) ([]Cliente, error) {
	var clientes []Cliente
	err := db.Model(&Cliente{}).
		Scopes(escopo).
		Order("nome ASC").
		Find(&clientes).Error
	return clientes, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, c *Cliente) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uuid.UUID) error {
	res := db.Delete(&Cliente{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) ContarContratos(db *gorm.DB, id uuid.UUID) (int64, error) {
	var n int64
	err := db.Table("contratos").Where("cliente_id = ?", id).Count(&n).Error
	return n, err
}
