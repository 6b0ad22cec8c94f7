package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"slideforge/config"
	"slideforge/database"
	"slideforge/dbpool"
	"slideforge/logger"
)

func main() {
	configPath := flag.String("config", "slideforge.json", "path to the config file")
	docID := flag.String("doc", "", "document id to export")
	format := flag.String("format", "all", "export format: snapshot|markup|package|pdf, or all")
	outDir := flag.String("out", "", "output directory (overrides config exportDir)")
	seedPath := flag.String("seed", "", "JSON document file to load into the store under -doc before exporting")
	flag.Parse()

	if err := run(*configPath, *docID, *format, *outDir, *seedPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath, docID, formatName, outDir, seedPath string) error {
	if docID == "" {
		return fmt.Errorf("-doc is required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.ExportDir
	}

	log := logger.NewLogger()
	if cfg.DetailedLog {
		if err := log.Init("logs"); err != nil {
			return err
		}
		defer log.Close()
	}

	manager := dbpool.New(dbpool.Engine(cfg.DBEngine), log.Log)
	store, err := database.Open(manager, dbpool.OpenOptions{
		Engine: dbpool.Engine(cfg.DBEngine),
		Path:   cfg.DBPath,
	}, database.Limits{
		MaxSlides:         cfg.MaxSlides,
		MaxBlocksPerSlide: cfg.MaxBlocksPerSlide,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if seedPath != "" {
		if err := seedDocument(ctx, store, docID, seedPath); err != nil {
			return err
		}
	}

	entitlements := NewEntitlementStore(cfg.EntitlementFile)
	if err := entitlements.Load(); err != nil {
		log.Logf("entitlement load: %v", err)
	}

	facade := NewExportFacadeService(store, entitlements, cfg.Plan, log.Log)

	if formatName == "all" {
		paths, err := facade.ExportAllFormats(ctx, docID, outDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	}

	path, err := facade.ExportDocumentToFile(ctx, docID, formatName, outDir)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
