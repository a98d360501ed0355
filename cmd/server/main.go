package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"replygate-core/internal/adapter/api"
	"replygate-core/internal/adapter/client"
	"replygate-core/internal/adapter/store"
	"replygate-core/internal/domain/entity"
	"replygate-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		log.Println("Warning: .env.dev file not found, using system environment variables")
	}
	ctx := context.Background()

	redisAddr := os.Getenv("REDIS_ADDR")
	qdrantHost := os.Getenv("QDRANT_HOST")
	qdrantPortStr := os.Getenv("QDRANT_PORT")
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	location := os.Getenv("GOOGLE_CLOUD_LOCATION")

	qdrantPort, _ := strconv.Atoi(qdrantPortStr)

	// Redis for tenant settings and the global flags
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	// Qdrant for the tenant knowledge chunks
	qClient, err := qdrant.NewClient(&qdrant.Config{
		Host: qdrantHost,
		Port: qdrantPort,
	})
	if err != nil {
		log.Fatalf("failed to connect to qdrant: %v", err)
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		log.Fatalf("failed to init genai client: %v", err)
	}

	primaryGenerator := client.NewGeminiReplyGenerator(genaiClient, "gemini-2.5-flash")
	fallbackGenerator := client.NewGeminiReplyGenerator(genaiClient, "gemini-1.5-flash")
	generator := usecase.NewResilientGenerator(primaryGenerator, fallbackGenerator)

	embedder := client.NewGeminiEmbedder(genaiClient, "text-embedding-004")
	verifier := client.NewGeminiSelfCheckVerifier(genaiClient, "gemini-2.5-flash")

	chunkStore := store.NewQdrantChunkStore(qClient, os.Getenv("QDRANT_COLLECTION"))
	if err := chunkStore.InitCollection(ctx, 768); err != nil {
		log.Fatalf("failed to init qdrant collection: %v", err)
	}

	settingsStore := store.NewRedisSettingsStore(rdb)
	retrieval := usecase.NewRetrievalEngine(embedder, chunkStore, usecase.RetrievalConfig{})

	// Inject the adapters into the decision pipeline
	pipeline := usecase.NewPipeline(settingsStore, retrieval, generator, verifier)

	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err := embedder.CreateEmbedding(warmCtx, "warmup")
		if err != nil {
			log.Printf("[WARMER] Embedder warm-up failed: %v", err)
		}

		// 2. Warm the LLM (Wakes up the model instance)
		_, err = generator.Generate(warmCtx, entity.GenerationContext{TenantID: "warmup", Message: "."}, nil)
		if err != nil {
			log.Printf("[WARMER] Generator warm-up failed: %v", err)
		}

		log.Println("[WARMER] Pre-warm complete. Decision engine is HOT.")
	}()

	// Initialize API Layer (Delivery Layer)
	app := fiber.New(fiber.Config{
		AppName: "Replygate Decision Engine",
	})

	handler := api.NewDecisionHandler(pipeline)
	api.SetupRouter(app, handler)

	// Start Server
	log.Printf("Replygate decision engine running on port %s", os.Getenv("PORT"))
	log.Fatal(app.Listen(":" + os.Getenv("PORT")))
}
