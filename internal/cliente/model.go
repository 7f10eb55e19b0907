package cliente

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente é uma organização com contratos, pertencente a exatamente um
// parceiro. O parceiro do cliente define a posse transitiva de contratos,
// parcelas e timesheets.
type Cliente struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome        string    `gorm:"size:255;not null;index" json:"nome"`
	ParceiroID  uuid.UUID `gorm:"type:uuid;not null;index" json:"parceiroId"`
	CNPJ        string    `gorm:"size:20;index" json:"cnpj"`
	RazaoSocial string    `gorm:"size:255" json:"razaoSocial"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Cliente) TableName() string { return "clientes" }

func (c *Cliente) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
