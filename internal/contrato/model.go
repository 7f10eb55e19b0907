package contrato

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/cliente"
)

// Status de vigência de um contrato. Trafega como token minúsculo.
type Status string

const (
	StatusAtivo   Status = "ativo"
	StatusInativo Status = "inativo"
	StatusAVencer Status = "a_vencer"
)

func (s Status) Valida() bool {
	switch s {
	case StatusAtivo, StatusInativo, StatusAVencer:
		return true
	}
	return false
}

// Formas de pagamento aceitas.
const (
	PagamentoAVista    = "a_vista"
	PagamentoParcelado = "parcelado"
)

// Contrato é um acordo de faturamento de um cliente. ValorFaturado e
// Saldo são derivados das parcelas: ValorFaturado é a soma das parcelas
// faturadas e Saldo = ValorTotal - ValorFaturado. O invariante é
// restabelecido a cada mutação de parcela (ver pacote parcela).
type Contrato struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nome           string    `gorm:"size:255;not null;index" json:"nome"`
	ClienteID      uuid.UUID `gorm:"type:uuid;not null;index" json:"clienteId"`
	ValorTotal     float64   `gorm:"not null" json:"valorTotal"`
	ValorFaturado  float64   `gorm:"not null;default:0" json:"valorFaturado"`
	Saldo          float64   `gorm:"not null" json:"saldo"`
	Status         Status    `gorm:"size:20;not null;default:'ativo'" json:"status"`
	DataFim        time.Time `gorm:"not null" json:"dataFim"`
	Responsavel    string    `gorm:"size:255" json:"responsavel"`
	FormaPagamento string    `gorm:"size:50;not null;default:'parcelado'" json:"formaPagamento"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Cliente *cliente.Cliente `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
}

func (Contrato) TableName() string { return "contratos" }

func (c *Contrato) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// PercentualFaturado é derivado na leitura, nunca persistido.
func (c *Contrato) PercentualFaturado() float64 {
	if c.ValorTotal <= 0 {
		return 0
	}
	return c.ValorFaturado / c.ValorTotal * 100
}
