package feedback

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackConsultor é uma avaliação de um consultor feita por um usuário,
// opcionalmente vinculada a um contrato. A nota (0-100) alimenta o
// feedback médio derivado do consultor.
type FeedbackConsultor struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ConsultorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"consultorId"`
	UsuarioID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"usuarioId"`
	ContratoID  *uuid.UUID `gorm:"type:uuid" json:"contratoId"`
	Comentario  string     `gorm:"size:2000;not null" json:"comentario"`
	Nota        *int       `json:"nota"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (FeedbackConsultor) TableName() string { return "feedbacks_consultores" }

func (f *FeedbackConsultor) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
