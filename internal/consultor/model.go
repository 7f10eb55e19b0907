package consultor

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Consultor é um profissional alocado num contrato. O parceiro do
// consultor deve ser sempre o parceiro do cliente do contrato; isso é
// imposto na criação. O feedback médio e a cor de desempenho são
// derivados dos feedbacks na leitura e nunca persistidos.
type Consultor struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome       string    `gorm:"size:255;not null;index" json:"nome"`
	Cargo      string    `gorm:"size:100;not null" json:"cargo"`
	ContratoID uuid.UUID `gorm:"type:uuid;not null;index" json:"contratoId"`
	ParceiroID uuid.UUID `gorm:"type:uuid;not null;index" json:"parceiroId"`
	FotoURL    string    `gorm:"size:500" json:"fotoUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Consultor) TableName() string { return "consultores" }

func (c *Consultor) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CorDesempenho classifica o feedback médio em faixas de desempenho.
func CorDesempenho(media float64) string {
	switch {
	case media >= 90:
		return "green"
	case media >= 80:
		return "orange"
	default:
		return "red"
	}
}
