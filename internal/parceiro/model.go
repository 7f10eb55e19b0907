package parceiro

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Parceiro é a organização inquilina: a fronteira de isolamento do sistema.
type Parceiro struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome        string    `gorm:"size:255;not null;uniqueIndex" json:"nome"`
	Ativo       bool      `gorm:"not null;default:true" json:"ativo"`
	Estrategico bool      `gorm:"not null;default:false" json:"estrategico"`
	Status      string    `gorm:"size:50;not null;default:'active'" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Parceiro) TableName() string { return "parceiros" }

func (p *Parceiro) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
