package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"

	"github.com/xavierca1/ligue-leads/internal/infra/database"
	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func main() {
	godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")

	if err := database.RunMigrations(databaseURL); err != nil {
		log.Fatal(err)
	}

	db, err := database.NewDBConnection(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// RabbitMQ é opcional: sem broker o serviço roda sem publicar eventos.
	var rabbitMQ *queue.RabbitMQ
	var producer usecase.LeadEventPublisherInterface
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbitMQ, err = queue.NewRabbitMQ(url)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	} else {
		log.Println("RABBITMQ_URL não configurada, eventos de lead desativados")
	}

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)

	// 2. Adapters
	mailPort, err := strconv.Atoi(getenv("MAIL_PORT", "587"))
	if err != nil {
		log.Fatal("MAIL_PORT inválida: ", err)
	}
	mailer := mail.NewConfirmationSender(
		os.Getenv("MAIL_HOST"), mailPort, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		getenv("MAIL_FROM", "Your App <onboarding@liguemedicina.com>"),
	)

	urlBuilder := usecase.ConfirmURLBuilder{BaseURL: os.Getenv("PUBLIC_BASE_URL")}
	landingPage := getenv("SITE_URL", "http://localhost:5173") + "/lead-confirmed"

	// 3. UseCases
	submitUC := usecase.NewSubmitLeadUseCase(leadRepo, mailer, producer, urlBuilder)
	confirmUC := usecase.NewConfirmLeadUseCase(leadRepo, producer, landingPage)
	resendUC := usecase.NewResendConfirmationUseCase(leadRepo, mailer, urlBuilder)

	// 4. Handlers
	leadHandler := handlers.NewLeadHandler(submitUC, confirmUC, resendUC)
	var rabbitConn *amqp.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(db, rabbitConn)

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
	}))
	r.Use(middleware.Metrics)

	// 10 req/min por IP nos endpoints públicos de escrita
	limiter := middleware.NewIPRateLimiter(rate.Limit(10.0/60.0), 10)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/submit-lead", leadHandler.Submit)
		r.Post("/resend-lead-confirmation", leadHandler.Resend)
	})

	r.Get("/confirm-lead", leadHandler.Confirm)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + getenv("PORT", "8080")
	log.Printf("🔥 Server Ligue Leads rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
