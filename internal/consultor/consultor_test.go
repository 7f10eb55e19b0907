package consultor_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gestaoparceiros/api-contratos/internal/consultor"
	"github.com/gestaoparceiros/api-contratos/internal/feedback"
)

func TestCorDesempenho(t *testing.T) {
	tests := []struct {
		media float64
		want  string
	}{
		{100, "green"},
		{90, "green"},
		{89.9, "orange"},
		{80, "orange"},
		{79.9, "red"},
		{0, "red"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, consultor.CorDesempenho(tt.media), "media %v", tt.media)
	}
}

func TestMediaFeedback(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&consultor.Consultor{}, &feedback.FeedbackConsultor{}))

	repo := consultor.NewRepository()

	c := consultor.Consultor{
		Nome:       "Ana",
		Cargo:      "Analista",
		ContratoID: uuid.New(),
		ParceiroID: uuid.New(),
	}
	require.NoError(t, repo.Criar(db, &c))

	t.Run("sem notas devolve zero", func(t *testing.T) {
		media, err := repo.MediaFeedback(db, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, media)
	})

	t.Run("média ignora feedbacks sem nota e de outros consultores", func(t *testing.T) {
		notas := []int{80, 90, 100}
		for i := range notas {
			f := feedback.FeedbackConsultor{
				ConsultorID: c.ID,
				UsuarioID:   uuid.New(),
				Comentario:  "ok",
				Nota:        &notas[i],
			}
			require.NoError(t, db.Create(&f).Error)
		}
		// comentário sem nota não entra na média
		require.NoError(t, db.Create(&feedback.FeedbackConsultor{
			ConsultorID: c.ID,
			UsuarioID:   uuid.New(),
			Comentario:  "sem nota",
		}).Error)
		// nota de outro consultor não entra
		alta := 10
		require.NoError(t, db.Create(&feedback.FeedbackConsultor{
			ConsultorID: uuid.New(),
			UsuarioID:   uuid.New(),
			Comentario:  "outro",
			Nota:        &alta,
		}).Error)

		media, err := repo.MediaFeedback(db, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 90.0, media)
	})
}
