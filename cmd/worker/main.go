package main

import (
	"context"
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"podblog/internal/ai"
	"podblog/internal/db"
	"podblog/internal/pipeline"
	"podblog/internal/storage"
	"podblog/internal/worker"
	"podblog/pkg/tasks"
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

	tempDir := os.Getenv("TEMP_AUDIO_DIR")
	if tempDir == "" {
		tempDir = "/tmp/podblog"
	}

	aiClient, err := ai.NewGeminiClient(context.Background(), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatalf("Failed to create AI client: %v", err)
	}
	defer aiClient.Close()

	transcriber := ai.NewDeepgramClient(os.Getenv("DEEPGRAM_API_KEY"))
	store := storage.NewSupabaseStore(os.Getenv("SUPABASE_URL"), os.Getenv("SUPABASE_SERVICE_KEY"))

	processor := pipeline.NewProcessor(aiClient, transcriber, store, tempDir)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			// One pipeline at a time; each run holds an audio file and several
			// long provider calls.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(processor, tempDir)

	mux.HandleFunc(tasks.TypeProcessEpisode, taskHandler.HandleProcessEpisodeTask)
	mux.HandleFunc(tasks.TypeCleanupTempAudio, taskHandler.HandleCleanupTempAudioTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
