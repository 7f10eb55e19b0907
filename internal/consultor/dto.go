package consultor

import "github.com/google/uuid"

// ConsultorDTO é a projeção de leitura com os derivados de feedback.
type ConsultorDTO struct {
	ID            uuid.UUID `json:"id"`
	Nome          string    `json:"nome"`
	Cargo         string    `json:"cargo"`
	ContratoID    uuid.UUID `json:"contratoId"`
	ParceiroID    uuid.UUID `json:"parceiroId"`
	FotoURL       string    `json:"fotoUrl"`
	Feedback      float64   `json:"feedback"`
	CorDesempenho string    `json:"corDesempenho"`
}

// GrupoContratoDTO agrupa os consultores de um contrato com estatísticas.
type GrupoContratoDTO struct {
	ContratoID    uuid.UUID      `json:"contratoId"`
	ContratoNome  string         `json:"contratoNome"`
	ClienteNome   string         `json:"clienteNome"`
	Total         int            `json:"totalConsultores"`
	MediaFeedback float64        `json:"mediaFeedback"`
	Consultores   []ConsultorDTO `json:"consultores"`
}

// MontarConsultorDTO projeta um consultor com o feedback médio calculado.
func MontarConsultorDTO(c Consultor, media float64) ConsultorDTO {
	return ConsultorDTO{
		ID:            c.ID,
		Nome:          c.Nome,
		Cargo:         c.Cargo,
		ContratoID:    c.ContratoID,
		ParceiroID:    c.ParceiroID,
		FotoURL:       c.FotoURL,
		Feedback:      media,
		CorDesempenho: CorDesempenho(media),
	}
}
