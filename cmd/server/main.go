package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"podblog/internal/ai"
	"podblog/internal/db"
	"podblog/internal/handlers"
	"podblog/internal/middleware"
	"podblog/internal/storage"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	aiClient, err := ai.NewGeminiClient(context.Background(), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatalf("Failed to create AI client: %v", err)
	}
	defer aiClient.Close()

	store := storage.NewSupabaseStore(os.Getenv("SUPABASE_URL"), os.Getenv("SUPABASE_SERVICE_KEY"))

	h := handlers.New(asynqClient, aiClient, store)
	rateLimiter := middleware.NewRateLimiterMiddleware(rate.Limit(2), 5)

	r := mux.NewRouter()
	r.HandleFunc("/api/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/feed/{uuid}", h.GetFeed).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware, rateLimiter.Middleware)
	api.HandleFunc("/episodes", h.CreateEpisode).Methods(http.MethodPost)
	api.HandleFunc("/episodes", h.ListEpisodes).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id}", h.GetEpisode).Methods(http.MethodGet)
	api.HandleFunc("/episodes/{id}/social", h.GenerateSocial).Methods(http.MethodPost)
	api.HandleFunc("/episodes/{id}/newsletter", h.GenerateNewsletter).Methods(http.MethodPost)
	api.HandleFunc("/episodes/{id}/quotes", h.GenerateQuotes).Methods(http.MethodPost)
	api.HandleFunc("/episodes/{id}/chapters", h.GenerateChapters).Methods(http.MethodPost)
	api.HandleFunc("/episodes/{id}/wordpress", h.PublishWordPress).Methods(http.MethodPost)
	api.HandleFunc("/usage", h.GetUsage).Methods(http.MethodGet)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
