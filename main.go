package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"deal-hunter/apiclient"
	"deal-hunter/config"
	"deal-hunter/scraper/bizbuysell"
	"deal-hunter/services"
	"deal-hunter/storage"
	"deal-hunter/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	ctx := context.Background()

	logger.Info("=== Deal Hunter starting ===")
	logger.Info("Config — concurrency: %d | rate: %dms | retries: %d | max search URLs: %d",
		cfg.MaxConcurrency, cfg.RateLimitMs, cfg.MaxRetries, cfg.MaxSearchURLs)

	criteria := buildCriteria(ctx, cfg, logger)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer pgWriter.Close()

	scraper := bizbuysell.New(cfg, criteria, logger)
	fragments, err := scraper.Scrape(ctx)
	if err != nil {
		logger.Error("BizBuySell scrape failed: %v", err)
	}

	if len(fragments) == 0 {
		logger.Error("No listings were scraped. Exiting.")
		os.Exit(1)
	}

	logger.Info("Scraped %d raw fragments — writing to CSV...", len(fragments))

	if err := csvWriter.WriteRaw(fragments); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Raw fragments saved to %s", cfg.CSVOutputPath)
	}

	pipeline := services.NewPipeline(criteria, logger, cfg.MaxConcurrency)
	deals, _ := pipeline.ProcessBatch(ctx, fragments)

	if len(deals) == 0 {
		logger.Warn("No deals passed the financial filters this run")
	}

	excelWriter := storage.NewExcelWriter(cfg.ExcelOutputPath)
	if err := excelWriter.Write(deals, criteria); err != nil {
		logger.Error("Excel write failed: %v", err)
	} else {
		logger.Info("Deal tracker saved to %s", cfg.ExcelOutputPath)
	}

	if err := pgWriter.Write(deals); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
	} else {
		logger.Info("Deals stored in PostgreSQL (table: deals)")
	}

	digestSvc := services.NewDigestService(logger)
	report := digestSvc.Report(deals)
	digestSvc.Print(report)

	if cfg.SendDigest {
		weekDate := time.Now().Format("January 2, 2006")
		html, err := digestSvc.RenderHTML(report, weekDate)
		if err != nil {
			logger.Error("Digest render failed: %v", err)
		} else {
			emailer := services.NewEmailer(cfg, logger)
			subject := fmt.Sprintf("Deal Hunter — %d deals this week", len(report.TopDeals))
			if err := emailer.SendDigest(subject, html, cfg.ExcelOutputPath); err != nil {
				logger.Error("Digest email failed: %v", err)
			}
		}
	}

	if cfg.AppURL != "" {
		client := apiclient.New(cfg.AppURL, cfg.ScrapeAPISecret, logger)
		if err := client.PushDeals(ctx, deals, cfg.SendDigest); err != nil {
			logger.Error("Tracker push failed: %v", err)
		}
	}

	fmt.Printf("  Done. Raw CSV → %s | Tracker → %s | Deals → PostgreSQL (deals table)\n\n",
		cfg.CSVOutputPath, cfg.ExcelOutputPath)
}

// buildCriteria resolves the run's acquisition criteria: built-in defaults,
// then the local override file, then the tracker's remote override. The
// result is final before any fragment is processed.
func buildCriteria(ctx context.Context, cfg *config.Config, logger *utils.Logger) *config.Criteria {
	criteria := config.DefaultCriteria()

	if cfg.CriteriaPath != "" {
		fromFile, err := config.LoadCriteriaFile(cfg.CriteriaPath)
		if err != nil {
			logger.Warn("Criteria file %s unusable, keeping defaults: %v", cfg.CriteriaPath, err)
		} else {
			logger.Info("Criteria loaded from %s", cfg.CriteriaPath)
			criteria = fromFile
		}
	}

	if cfg.AppURL != "" {
		client := apiclient.New(cfg.AppURL, cfg.ScrapeAPISecret, logger)
		override, err := client.FetchCriteria(ctx)
		switch {
		case err != nil:
			logger.Warn("Remote criteria unavailable, keeping local: %v", err)
		case override == nil:
			logger.Info("Tracker has no criteria override")
		default:
			logger.Info("Criteria override applied from tracker")
			criteria = override.Apply(criteria)
		}
	}

	return criteria
}
