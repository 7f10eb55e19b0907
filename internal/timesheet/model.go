package timesheet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timesheet é o registro aprovado de horas consumidas de um contrato,
// opcionalmente vinculado a um consultor e a um arquivo enviado.
type Timesheet struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContratoID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"contratoId"`
	ConsultorID   *uuid.UUID `gorm:"type:uuid" json:"consultorId"`
	ArquivoURL    string     `gorm:"size:500" json:"arquivoUrl"`
	Horas         float64    `gorm:"not null" json:"horas"`
	Aprovador     string     `gorm:"size:255" json:"aprovador"`
	DataAprovacao *time.Time `json:"dataAprovacao"`
	Aprovado      bool       `gorm:"default:false" json:"aprovado"`
	EnviadoEm     time.Time  `gorm:"autoCreateTime" json:"enviadoEm"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Timesheet) TableName() string { return "timesheets" }

func (t *Timesheet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
