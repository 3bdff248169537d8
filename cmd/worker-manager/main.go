// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"assessment-workers/internal/assessment"
	"assessment-workers/internal/common/config"
	"assessment-workers/internal/common/database"
	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/common/observability"
	"assessment-workers/internal/embedding"
	"assessment-workers/pkg/registry"

	ac "assessment-workers/internal/workers/assessment/assess-candidate"
	ba "assessment-workers/internal/workers/assessment/batch-assess-candidates"
	ca "assessment-workers/internal/workers/assessment/compare-assessments"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis (optional embedding cache tier) with retry ---
	var redisClient *database.RedisClient
	if cfg.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Info("Redis cache tier disabled, embedding cache is in-process only")
	}

	// --- Init Embedding Pipeline ---
	encoder := buildEncoder(ctx, cfg.Embedding, zapLog)

	storeOpts := embedding.StoreOptions{
		CacheSize: cfg.Embedding.CacheSize,
		RedisTTL:  time.Duration(cfg.Embedding.CacheTTL) * time.Millisecond,
	}
	if redisClient != nil {
		storeOpts.Redis = redisClient.GetClient()
	}
	store, err := embedding.NewStore(encoder, storeOpts, log)
	if err != nil {
		zapLog.Fatal("embedding store initialization failed", zap.Error(err))
	}
	zapLog.Info("Embedding store initialized",
		zap.String("modelVersion", store.ModelVersion()),
		zap.Int("dimension", store.Dimension()),
	)

	// --- Init Assessment Engine ---
	engine, err := assessment.NewEngine(cfg.Scoring, store, log)
	if err != nil {
		zapLog.Fatal("assessment engine initialization failed", zap.Error(err))
	}
	engine.WithObservability(obs)
	zapLog.Info("Assessment engine initialized",
		zap.Float64("nominalMax", cfg.Scoring.NominalMax),
		zap.Float64("enhancementFactor", cfg.Scoring.EnhancementFactor),
	)

	// --- Register Workers ---
	activities := registry.Default()
	zapLog.Info("Activity registry loaded", zap.Strings("taskTypes", activities.TaskTypes()))

	if wcfg, ok := cfg.Workers[ac.TaskType]; ok && wcfg.Enabled {
		handler := ac.NewHandler(
			&ac.Config{
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			engine, log,
		)
		startWorker(zeebeClient, ac.TaskType, wcfg, handler.Handle, zapLog)
	}

	if wcfg, ok := cfg.Workers[ba.TaskType]; ok && wcfg.Enabled {
		handler := ba.NewHandler(
			&ba.Config{
				Timeout:      time.Duration(wcfg.Timeout) * time.Millisecond,
				Parallelism:  wcfg.Parallelism,
				MaxBatchSize: ba.LoadConfig().MaxBatchSize,
			},
			engine, log,
		)
		startWorker(zeebeClient, ba.TaskType, wcfg, handler.Handle, zapLog)
	}

	if wcfg, ok := cfg.Workers[ca.TaskType]; ok && wcfg.Enabled {
		handler := ca.NewHandler(
			&ca.Config{
				Timeout: time.Duration(wcfg.Timeout) * time.Millisecond,
			},
			engine, log,
		)
		startWorker(zeebeClient, ca.TaskType, wcfg, handler.Handle, zapLog)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.ListenAddress))
		if err := http.ListenAndServe(cfg.Metrics.ListenAddress, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// buildEncoder selects the configured embedding provider. The choice is
// made once at startup so a mid-run provider flip can never mix vectors
// from different models in one cache.
func buildEncoder(ctx context.Context, cfg config.EmbeddingConfig, log *zap.Logger) embedding.Encoder {
	if cfg.Provider == "gemini" {
		enc, err := embedding.NewGeminiEncoder(ctx, cfg.APIKey, cfg.Dimension)
		if err == nil {
			log.Info("Gemini embedding encoder initialized", zap.String("model", enc.ModelVersion()))
			return enc
		}
		log.Warn("Gemini encoder unavailable, falling back to local encoder", zap.Error(err))
	}

	enc := embedding.NewLocalEncoder(cfg.Dimension)
	log.Info("Local embedding encoder initialized",
		zap.String("modelVersion", enc.ModelVersion()),
		zap.Int("dimension", enc.Dimension()),
	)
	return enc
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
