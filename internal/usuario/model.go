package usuario

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role é o nível de acesso do usuário. Os valores trafegam na fronteira
// como tokens minúsculos e nunca são comparados como strings cruas fora
// deste pacote.
type Role string

const (
	RoleAdminGlobal   Role = "admin_global"
	RoleAdminParceiro Role = "admin_partner"
	RoleUserParceiro  Role = "user_partner"
)

// Valida informa se o valor recebido na fronteira é um role conhecido.
func (r Role) Valida() bool {
	switch r {
	case RoleAdminGlobal, RoleAdminParceiro, RoleUserParceiro:
		return true
	}
	return false
}

// TipoVinculo classifica o vínculo do usuário (parceiro, cliente ou interno).
type TipoVinculo string

const (
	VinculoParceiro TipoVinculo = "partner"
	VinculoCliente  TipoVinculo = "client"
	VinculoInterno  TipoVinculo = "internal"
)

// Valida informa se o tipo de vínculo é conhecido.
func (t TipoVinculo) Valida() bool {
	switch t {
	case VinculoParceiro, VinculoCliente, VinculoInterno:
		return true
	}
	return false
}

// Usuario é o principal autenticado do sistema. ParceiroID é nulo apenas
// para administradores globais.
type Usuario struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string      `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email       string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	SenhaHash   string      `gorm:"size:255;not null" json:"-"`
	Role        Role        `gorm:"size:50;not null;default:'user_partner'" json:"role"`
	TipoVinculo TipoVinculo `gorm:"size:20;not null;default:'partner'" json:"tipoVinculo"`
	ParceiroID  *uuid.UUID  `gorm:"type:uuid;index" json:"parceiroId"`
	ClienteID   *uuid.UUID  `gorm:"type:uuid" json:"clienteId"`
	Ativo       bool        `gorm:"not null;default:true" json:"ativo"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
