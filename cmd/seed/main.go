package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/bootstrap"
	"github.com/Domenick1991/travelbooking/internal/service/catalog"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Fatalf("seed needs a persistent storage driver, got %q", cfg.Storage.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer storage.Close()

	created, err := catalog.NewCatalogService(storage.Options, nil).SeedSampleCatalog(ctx, time.Now())
	if err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	log.Printf("sample travel options created: %d", created)
}
