package parcela

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
)

// Filtros opcionais da listagem de parcelas.
type Filtros struct {
	ContratoID *uuid.UUID
	Faturada   *bool
	Mes        string
	Ano        string // sufixo do rótulo, ex.: "25" casa "Jan/25"
}

// Repository encapsula o acesso a dados de parcelas.
type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Criar(db *gorm.DB, p *Parcela) error {
	return db.Create(p).Error
}

func (r *Repository) BuscarPorID(db *gorm.DB, id uuid.UUID) (*Parcela, error) {
	var p Parcela
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Listar(db *gorm.DB, escopo autorizacao.Escopo, f Filtros) ([]Parcela, error) {
	q := db.Model(&Parcela{}).Scopes(escopo)

	if f.ContratoID != nil {
		q = q.Where("parcelas.contrato_id = ?", *f.ContratoID)
	}
	if f.Faturada != nil {
		q = q.Where("parcelas.faturada = ?", *f.Faturada)
	}
	if f.Mes != "" {
		q = q.Where("parcelas.mes = ?", f.Mes)
	}
	if f.Ano != "" {
		q = q.Where("parcelas.mes LIKE ?", "%/"+f.Ano)
	}

	// Mes é um rótulo ("Jan/25") e não ordena cronologicamente; a ordem
	// vem da criação.
	var parcelas []Parcela
	err := q.Order("parcelas.created_at DESC").Find(&parcelas).Error
	return parcelas, err
}

func (r *Repository) Salvar(db *gorm.DB, p *Parcela) error {
	return db.Save(p).Error
}

func (r *Repository) Deletar(db *gorm.DB, id uuid.UUID) error {
	res := db.Delete(&Parcela{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumFaturadas soma o valor das parcelas faturadas de um contrato.
func (r *Repository) SumFaturadas(db *gorm.DB, contratoID uuid.UUID) (float64, error) {
	var total float64
	err := db.Model(&Parcela{}).
		Where("contrato_id = ? AND faturada = ?", contratoID, true).
		Select("COALESCE(SUM(valor), 0)").
		Scan(&total).Error
	return total, err
}

// RecalcularFaturamento restabelece os derivados do contrato a partir das
// parcelas: valor_faturado = soma das faturadas, saldo = total - faturado.
// É uma re-derivação completa do agregado, não um delta incremental, e deve
// rodar dentro da mesma transação da mutação de parcela para que os campos
// derivados nunca fiquem visivelmente defasados.
func (r *Repository) RecalcularFaturamento(tx *gorm.DB, contratoID uuid.UUID) error {
	total, err := r.SumFaturadas(tx, contratoID)
	if err != nil {
		return err
	}
	return tx.Table("contratos").
		Where("id = ?", contratoID).
		Updates(map[string]interface{}{
			"valor_faturado": total,
			"saldo":          gorm.Expr("valor_total - ?", total),
		}).Error
}

// ResumoContrato agrega o faturamento de um contrato ativo.
type ResumoContrato struct {
	ContratoID    uuid.UUID `json:"contratoId"`
	ContratoNome  string    `json:"contratoNome"`
	TotalParcelas int64     `json:"totalParcelas"`
	ValorTotal    float64   `json:"valorTotal"`
	ValorFaturado float64   `json:"valorFaturado"`
}

// ResumosPorContrato agrega parcelas por contrato ativo, dentro do escopo
// de parceiro do usuário.
func (r *Repository) ResumosPorContrato(db *gorm.DB, escopo autorizacao.Escopo) ([]ResumoContrato, error) {
	var resumos []ResumoContrato
	err := db.Model(&Parcela{}).
		Scopes(escopo).
		Select(`contratos.id AS contrato_id,
			contratos.nome AS contrato_nome,
			COUNT(parcelas.id) AS total_parcelas,
			COALESCE(SUM(parcelas.valor), 0) AS valor_total,
			COALESCE(SUM(CASE WHEN parcelas.faturada THEN parcelas.valor ELSE 0 END), 0) AS valor_faturado`).
		Where("contratos.status = ?", "ativo").
		Group("contratos.id, contratos.nome").
		Scan(&resumos).Error
	return resumos, err
}

// SomaPorFaturada soma valores de parcelas do escopo, por estado de
// faturamento.
func (r *Repository) SomaPorFaturada(db *gorm.DB, escopo autorizacao.Escopo, faturada bool) (float64, int64, error) {
	var total float64
	var count int64
	if err := db.Model(&Parcela{}).Scopes(escopo).
		Where("parcelas.faturada = ?", faturada).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}
	err := db.Model(&Parcela{}).Scopes(escopo).
		Where("parcelas.faturada = ?", faturada).
		Select("COALESCE(SUM(parcelas.valor), 0)").
		Scan(&total).Error
	return total, count, err
}
