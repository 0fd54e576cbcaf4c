package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"voiceform/internal/cache"
	"voiceform/internal/config"
	"voiceform/internal/llm"
	"voiceform/internal/repository"
	"voiceform/internal/service"
	"voiceform/internal/transport/rest"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	if cfg.AI.IsEnabled() {
		logger.Info("AI configured",
			zap.String("analysis", cfg.AI.Models.Analysis),
			zap.String("generator", cfg.AI.Models.Generator),
			zap.String("realtime", cfg.AI.Models.Realtime))
	} else {
		logger.Warn("OPENAI_API_KEY not set, AI features degrade to fallbacks")
	}

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection. The summary cache degrades to in-memory when Redis
	// is unreachable, so startup never blocks on it.
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	var summaryCache cache.SummaryCache
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Warn("Redis unreachable, using in-memory summary cache", zap.Error(err))
		summaryCache = cache.NewMemorySummaryCache()
	} else {
		logger.Info("connected to Redis")
		summaryCache = cache.NewSummaryCache(rdb)
	}

	// Initialize repositories
	formRepo := repository.NewFormRepo(db)
	conversationRepo := repository.NewConversationRepo(db)
	assessmentRepo := repository.NewAssessmentRepo(db)
	bankRepo := repository.NewQuestionBankRepo(db)

	// Initialize services
	aiClient := llm.NewClient(cfg.AI, logger)
	summarizer := service.NewSummarizer(cfg.AI, aiClient, summaryCache, logger)
	extractor := service.NewExtractor(cfg.AI, aiClient, logger)
	generator := service.NewGenerator(cfg.AI, aiClient, logger)
	answerExtractor := service.NewAssessmentExtractor(cfg.AI, aiClient, logger)
	tokens := service.NewShareTokenService(cfg.ShareTokenSecret)

	interviewSvc := service.NewInterviewService(formRepo, conversationRepo, assessmentRepo, logger)
	conversationSvc := service.NewConversationService(conversationRepo, assessmentRepo, formRepo, summarizer, extractor, logger)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, conversationRepo, formRepo, bankRepo,
		generator, answerExtractor, tokens, cfg.PublicBaseURL, logger)
	sessionSvc := service.NewSessionService(cfg.AI, aiClient, logger)

	interviewSvc.EnsureSeedInterview(ctx)

	router := rest.NewRouter(&rest.Container{
		InterviewService:    interviewSvc,
		ConversationService: conversationSvc,
		AssessmentService:   assessmentSvc,
		SessionService:      sessionSvc,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
