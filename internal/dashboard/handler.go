package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/gestaoparceiros/api-contratos/internal/apierro"
	"github.com/gestaoparceiros/api-contratos/internal/autorizacao"
	"github.com/gestaoparceiros/api-contratos/internal/consultor"
	"github.com/gestaoparceiros/api-contratos/internal/contrato"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type resumoFinanceiro struct {
	ValorTotal    float64 `json:"valorTotal"`
	ValorFaturado float64 `json:"valorFaturado"`
	Saldo         float64 `json:"saldo"`
}

type resumoDashboard struct {
	ContratosPorStatus  map[string]int64 `json:"contratosPorStatus"`
	TotalContratos      int64            `json:"totalContratos"`
	ConsultoresAlocados int64            `json:"consultoresAlocados"`
	Financeiro          resumoFinanceiro `json:"financeiro"`
	ContratosAVencer30d int64            `json:"contratosAVencer30Dias"`
}

// GET /api/dashboard
// Agregados sempre no escopo do parceiro do usuário; o admin global vê
// os números de toda a base.
func (h *Handler) Resumo(w http.ResponseWriter, r *http.Request) {
	u, err := autorizacao.RequireAuthenticated(r.Context())
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	escopoContratos := autorizacao.EscopoContratos(u)

	porStatus := map[string]int64{}
	var total int64
	for _, s := range []contrato.Status{contrato.StatusAtivo, contrato.StatusInativo, contrato.StatusAVencer} {
		var n int64
		err := h.DB.Model(&contrato.Contrato{}).
			Scopes(escopoContratos).
			Where("contratos.status = ?", s).
			Count(&n).Error
		if err != nil {
			apierro.Escrever(w, err)
			return
		}
		porStatus[string(s)] = n
		total += n
	}

	var consultores int64
	err = h.DB.Model(&consultor.Consultor{}).
		Scopes(autorizacao.EscopoParceiro(u)).
		Count(&consultores).Error
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	var fin resumoFinanceiro
	err = h.DB.Model(&contrato.Contrato{}).
		Scopes(escopoContratos).
		Select("COALESCE(SUM(contratos.valor_total), 0) AS valor_total, COALESCE(SUM(contratos.valor_faturado), 0) AS valor_faturado, COALESCE(SUM(contratos.saldo), 0) AS saldo").
		Scan(&fin).Error
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	agora := time.Now()
	var aVencer int64
	err = h.DB.Model(&contrato.Contrato{}).
		Scopes(escopoContratos).
		Where("contratos.status <> ?", contrato.StatusInativo).
		Where("contratos.data_fim BETWEEN ? AND ?", agora, agora.AddDate(0, 0, 30)).
		Count(&aVencer).Error
	if err != nil {
		apierro.Escrever(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resumoDashboard{
		ContratosPorStatus:  porStatus,
		TotalContratos:      total,
		ConsultoresAlocados: consultores,
		Financeiro:          fin,
		ContratosAVencer30d: aVencer,
	})
}
