package parcela

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Parcela é uma tranche de faturamento de um contrato. O rótulo Mes segue
// o formato "Jan/25". Os campos de nota fiscal são opcionais e só fazem
// sentido quando a parcela é faturada.
type Parcela struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContratoID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"contratoId"`
	Mes                   string     `gorm:"size:20;not null" json:"mes"`
	Valor                 float64    `gorm:"not null" json:"valor"`
	Faturada              bool       `gorm:"not null;default:false;index" json:"faturada"`
	NotaFiscal            string     `gorm:"size:100" json:"notaFiscal"`
	DataFaturamento       *time.Time `json:"dataFaturamento"`
	PrazoPagamento        *int       `json:"prazoPagamento"`
	DataPrevistaPagamento *time.Time `json:"dataPrevistaPagamento"`
	DataPagamento         *time.Time `json:"dataPagamento"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func (Parcela) TableName() string { return "parcelas" }

func (p *Parcela) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
