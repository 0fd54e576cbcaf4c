// Seeds the assessment question bank with curated per-role question sets.
// Run once against a fresh database; reruns replace each role's set.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voiceform/internal/repository"
)

var roleBanks = map[string][]string{
	"Software Engineer": {
		"Explain the difference between a process and a thread, and when that difference matters.",
		"Walk me through how you would design a rate limiter for a public API.",
		"Describe a production bug you diagnosed and what the root cause turned out to be.",
	},
	"Frontend Developer": {
		"How does the browser's event loop handle promises versus setTimeout callbacks?",
		"What strategies do you use to keep a large component tree performant?",
		"Explain how you would make a complex form accessible to screen reader users.",
	},
	"Backend Developer": {
		"How do you decide between SQL and a document store for a new service?",
		"Describe how you would make an endpoint idempotent for safe client retries.",
		"What does a healthy database migration workflow look like on a live system?",
	},
	"Data Scientist": {
		"How do you detect and handle data leakage when building a predictive model?",
		"Explain the bias-variance tradeoff with an example from your own work.",
		"Walk me through how you would validate a model before shipping it.",
	},
	"DevOps Engineer": {
		"Describe a zero-downtime deployment strategy and its failure modes.",
		"How would you design alerting so the on-call engineer is paged only when it matters?",
		"Explain how you manage secrets across environments without leaking them into builds.",
	},
}

func main() {
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "voiceform"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	bank := repository.NewQuestionBankRepo(client.Database(mongoDB))
	for role, questions := range roleBanks {
		if err := bank.Upsert(ctx, role, questions); err != nil {
			log.Fatalf("Failed to seed %q: %v", role, err)
		}
		fmt.Printf("Seeded %d questions for %s\n", len(questions), role)
	}
}
