package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/gestaoparceiros/api-contratos/internal/auth"
	"github.com/gestaoparceiros/api-contratos/internal/cliente"
	"github.com/gestaoparceiros/api-contratos/internal/consultor"
	"github.com/gestaoparceiros/api-contratos/internal/contrato"
	"github.com/gestaoparceiros/api-contratos/internal/dashboard"
	"github.com/gestaoparceiros/api-contratos/internal/feedback"
	"github.com/gestaoparceiros/api-contratos/internal/parceiro"
	"github.com/gestaoparceiros/api-contratos/internal/parcela"
	"github.com/gestaoparceiros/api-contratos/internal/timesheet"
	"github.com/gestaoparceiros/api-contratos/internal/usuario"
	"github.com/gestaoparceiros/api-contratos/internal/utils/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("arquivo .env não encontrado, usando variáveis do ambiente")
	}

	database, err := db.ConnectDataBase()
	if err != nil {
		logrus.WithError(err).Fatal("erro ao conectar no banco")
	}

	if err := database.AutoMigrate(
		&parceiro.Parceiro{},
		&usuario.Usuario{},
		&cliente.Cliente{},
		&contrato.Contrato{},
		&parcela.Parcela{},
		&consultor.Consultor{},
		&feedback.FeedbackConsultor{},
		&timesheet.Timesheet{},
	); err != nil {
		logrus.WithError(err).Fatal("erro no AutoMigrate")
	}

	// Handlers
	authHandler := auth.NewHandler(database)
	parceiroHandler := parceiro.NewHandler(database)
	clienteHandler := cliente.NewHandler(database)
	contratoHandler := contrato.NewHandler(database)
	parcelaHandler := parcela.NewHandler(database)
	consultorHandler := consultor.NewHandler(database)
	feedbackHandler := feedback.NewHandler(database)
	timesheetHandler := timesheet.NewHandler(database)
	dashboardHandler := dashboard.NewHandler(database)

	// Router
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Rotas públicas
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Rotas protegidas
	protegido := api.NewRoute().Subrouter()
	protegido.Use(auth.MiddlewareAutenticacao(database, usuario.NewRepository()))

	protegido.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	protegido.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	// Rotas de parceiros (admin global)
	protegido.HandleFunc("/partners", parceiroHandler.Listar).Methods("GET")
	protegido.HandleFunc("/partners", parceiroHandler.Criar).Methods("POST")
	protegido.HandleFunc("/partners/{id}", parceiroHandler.BuscarPorID).Methods("GET")
	protegido.HandleFunc("/partners/{id}", parceiroHandler.Atualizar).Methods("PUT")
	protegido.HandleFunc("/partners/{id}", parceiroHandler.Deletar).Methods("DELETE")

	// Rotas de clientes
	protegido.HandleFunc("/clients", clienteHandler.Listar).Methods("GET")
	protegido.HandleFunc("/clients", clienteHandler.Criar).Methods("POST")
	protegido.HandleFunc("/clients/{id}", clienteHandler.BuscarPorID).Methods("GET")
	protegido.HandleFunc("/clients/{id}", clienteHandler.Atualizar).Methods("PUT")
	protegido.HandleFunc("/clients/{id}", clienteHandler.Deletar).Methods("DELETE")

	// Rotas de contratos
	protegido.HandleFunc("/contracts", contratoHandler.Listar).Methods("GET")
	protegido.HandleFunc("/contracts", contratoHandler.Criar).Methods("POST")
	protegido.HandleFunc("/contracts/{id}", contratoHandler.BuscarPorID).Methods("GET")
	protegido.HandleFunc("/contracts/{id}", contratoHandler.Atualizar).Methods("PUT")
	protegido.HandleFunc("/contracts/{id}", contratoHandler.Deletar).Methods("DELETE")

	// Rotas de parcelas
	protegido.HandleFunc("/installments", parcelaHandler.Listar).Methods("GET")
	protegido.HandleFunc("/installments", parcelaHandler.Criar).Methods("POST")
	protegido.HandleFunc("/installments/summary", parcelaHandler.Resumo).Methods("GET")
	protegido.HandleFunc("/installments/{id}", parcelaHandler.BuscarPorID).Methods("GET")
	protegido.HandleFunc("/installments/{id}", parcelaHandler.Atualizar).Methods("PUT")
	protegido.HandleFunc("/installments/{id}", parcelaHandler.Deletar).Methods("DELETE")
	protegido.HandleFunc("/installments/{id}/mark-billed", parcelaHandler.MarcarFaturada).Methods("PATCH")

	// Rotas de consultores
	protegido.HandleFunc("/consultants", consultorHandler.Listar).Methods("GET")
	protegido.HandleFunc("/consultants", consultorHandler.Criar).Methods("POST")
	protegido.HandleFunc("/consultants/{id}", consultorHandler.BuscarPorID).Methods("GET")
	protegido.HandleFunc("/consultants/{id}", consultorHandler.Atualizar).Methods("PUT")
	protegido.HandleFunc("/consultants/{id}", consultorHandler.Deletar).Methods("DELETE")

	// Rotas de feedbacks
	protegido.HandleFunc("/feedbacks", feedbackHandler.Listar).Methods("GET")
	protegido.HandleFunc("/feedbacks", feedbackHandler.Criar).Methods("POST")
	protegido.HandleFunc("/feedbacks/{id}", feedbackHandler.BuscarPorID).Methods("GET")
	protegido.HandleFunc("/feedbacks/{id}", feedbackHandler.Atualizar).Methods("PUT")
	protegido.HandleFunc("/feedbacks/{id}", feedbackHandler.Deletar).Methods("DELETE")

	// Rotas de timesheets
	protegido.HandleFunc("/timesheets", timesheetHandler.Listar).Methods("GET")
	protegido.HandleFunc("/timesheets", timesheetHandler.Criar).Methods("POST")
	protegido.HandleFunc("/timesheets/{id}", timesheetHandler.BuscarPorID).Methods("GET")
	protegido.HandleFunc("/timesheets/{id}", timesheetHandler.Atualizar).Methods("PUT")
	protegido.HandleFunc("/timesheets/{id}", timesheetHandler.Deletar).Methods("DELETE")

	// Dashboard
	protegido.HandleFunc("/dashboard", dashboardHandler.Resumo).Methods("GET")

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}

	logrus.WithField("porta", porta).Info("servidor iniciado")
	logrus.Fatal(http.ListenAndServe(":"+porta, handler))
}
