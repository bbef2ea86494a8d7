// File: cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Agnesa14/SkillCast/internal/config"
	"github.com/Agnesa14/SkillCast/internal/job"
	"github.com/Agnesa14/SkillCast/internal/job/esutil"
	"github.com/Agnesa14/SkillCast/internal/platform/database"
	platformElasticsearch "github.com/Agnesa14/SkillCast/internal/platform/elasticsearch"
	"github.com/Agnesa14/SkillCast/internal/platform/logger"
	"github.com/Agnesa14/SkillCast/internal/session"
)

func main() {
	syncJobsCmd := flag.NewFlagSet("sync-jobs", flag.ExitOnError)
	batchSize := syncJobsCmd.Int("batch-size", 100, "Batch size for syncing job postings")
	esRefresh := syncJobsCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-jobs" {
		syncJobsCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
		}
		db, err := database.NewGORM(cfg)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize database for sync", zap.Error(err))
		}
		defer database.CloseGORMDB(db)

		esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
		}
		if esClient == nil {
			appLogger.Fatal("FATAL: Elasticsearch client is nil, ensure ELASTICSEARCH_URL is set.")
		}

		if err := platformElasticsearch.CreateJobsIndexIfNotExists(esClient, appLogger); err != nil {
			appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
		}

		jobRepo := job.NewGORMRepository(db)

		if err := runJobSync(jobRepo, esClient, appLogger, *batchSize, *esRefresh); err != nil {
			appLogger.Fatal("FATAL: Job posting synchronization failed", zap.Error(err))
		}
		appLogger.Info("Job posting synchronization completed successfully.")
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if server.ESClient != nil {
		if err := platformElasticsearch.CreateJobsIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch jobs index", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not initialized, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

func provideCleanup(logger *zap.Logger, db *gorm.DB, holder *session.Holder) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		holder.Close()
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}

// runJobSync pushes every posting into the search index in batches.
func runJobSync(
	jobRepo job.Repository,
	esClient *platformElasticsearch.ESClientWrapper,
	logger *zap.Logger,
	batchSize int,
	esRefresh string,
) error {
	logger.Info("Starting job posting synchronization to Elasticsearch...",
		zap.Int("batchSize", batchSize),
		zap.String("esRefreshPolicy", esRefresh),
	)

	offset := 0
	totalSynced := 0
	totalFailed := 0
	batchNumber := 1

	for {
		postings, err := jobRepo.FindAllForSync(context.Background(), offset, batchSize)
		if err != nil {
			return fmt.Errorf("failed to fetch batch %d: %w", batchNumber, err)
		}
		if len(postings) == 0 {
			logger.Info("No more postings to sync.")
			break
		}

		var bulkRequestBody strings.Builder
		batchIDs := make([]string, 0, len(postings))

		for i := range postings {
			p := &postings[i]
			batchIDs = append(batchIDs, p.ID.String())
			docJSON, errDoc := esutil.JobToElasticsearchDoc(p)
			if errDoc != nil {
				logger.Error("Failed to convert posting to Elasticsearch document",
					zap.String("jobID", p.ID.String()), zap.Error(errDoc))
				totalFailed++
				continue
			}

			action := fmt.Sprintf(`{ "index" : { "_index" : "%s", "_id" : "%s" } }%s`,
				platformElasticsearch.JobsIndexName, p.ID.String(), "\n")
			bulkRequestBody.WriteString(action)
			bulkRequestBody.WriteString(docJSON)
			bulkRequestBody.WriteString("\n")
		}

		if bulkRequestBody.Len() == 0 {
			offset += len(postings)
			batchNumber++
			continue
		}

		logger.Info("Sending bulk request to Elasticsearch",
			zap.Int("batchNumber", batchNumber), zap.Int("documentCount", len(batchIDs)))

		req := esapi.BulkRequest{
			Body:    strings.NewReader(bulkRequestBody.String()),
			Refresh: esRefresh,
		}
		res, errBulk := req.Do(context.Background(), esClient.Client)
		if errBulk != nil {
			logger.Error("Failed to send bulk request to Elasticsearch",
				zap.Error(errBulk), zap.Int("batchNumber", batchNumber))
			totalFailed += len(batchIDs)
			offset += len(postings)
			batchNumber++
			continue
		}

		batchSynced, batchFailed := parseBulkResponse(res, batchIDs, logger)
		res.Body.Close()

		totalSynced += batchSynced
		totalFailed += batchFailed
		logger.Info("Batch processed.",
			zap.Int("batchNumber", batchNumber),
			zap.Int("syncedInBatch", batchSynced),
			zap.Int("failedInBatch", batchFailed),
		)

		offset += len(postings)
		batchNumber++
	}

	logger.Info("Job posting synchronization process finished.",
		zap.Int("totalSyncedSuccessfully", totalSynced),
		zap.Int("totalFailed", totalFailed),
	)
	if totalFailed > 0 {
		return fmt.Errorf("%d postings failed to sync", totalFailed)
	}
	return nil
}

// parseBulkResponse counts item-level successes and failures. A bulk call
// can report 200 overall while individual documents were rejected.
func parseBulkResponse(res *esapi.Response, batchIDs []string, logger *zap.Logger) (synced, failed int) {
	if res.IsError() {
		logger.Error("Elasticsearch bulk request returned an error", zap.String("status", res.Status()))
		return 0, len(batchIDs)
	}

	var bulkResponse struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string                 `json:"_id"`
				Status int                    `json:"status"`
				Error  map[string]interface{} `json:"error,omitempty"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		logger.Error("Failed to parse Elasticsearch bulk response body", zap.Error(err))
		return 0, len(batchIDs)
	}

	for _, item := range bulkResponse.Items {
		if item.Index.Error != nil {
			logger.Error("Failed to index document in bulk batch",
				zap.String("jobID", item.Index.ID),
				zap.Any("error", item.Index.Error),
				zap.Int("status", item.Index.Status),
			)
			failed++
		} else {
			synced++
		}
	}
	return synced, failed
}
