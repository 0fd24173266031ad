package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sehyoun/nihongobot/internal/ai"
	"github.com/sehyoun/nihongobot/internal/bot"
	"github.com/sehyoun/nihongobot/internal/config"
	"github.com/sehyoun/nihongobot/internal/database"
	"github.com/sehyoun/nihongobot/internal/difficulty"
	"github.com/sehyoun/nihongobot/internal/generator"
	"github.com/sehyoun/nihongobot/internal/importer"
	"github.com/sehyoun/nihongobot/internal/itemstore"
	"github.com/sehyoun/nihongobot/internal/practice"
	"github.com/sehyoun/nihongobot/internal/scheduler"
	"github.com/sehyoun/nihongobot/internal/tts"
)

func main() {
	importFile := flag.String("import", "", "import practice items from an Excel/CSV file and exit")
	generate := flag.Bool("generate", false, "batch-generate practice items for all levels and exit")
	generateCount := flag.Int("generate-count", 25, "items per level/topic pair for -generate")
	flag.Parse()

	cfg := config.Load()

	store := itemstore.New(cfg.ItemsFile)

	// Maintenance modes run without the Telegram connection.
	if *importFile != "" {
		runImport(store, *importFile)
		return
	}
	if *generate {
		runGenerate(store, cfg, *generateCount)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	provider, err := ai.New(cfg.LLMProvider, cfg.LLMAPIKey)
	if err != nil {
		log.Fatalf("Failed to create LLM provider: %v", err)
	}
	if provider == nil {
		log.Println("No LLM provider configured, serving stored items only")
	}

	selector := practice.NewSelector(store, provider, practice.SelectorConfig{
		LowStockThreshold:   cfg.LowStockThreshold,
		RealtimeProbability: cfg.RealtimeProbability,
	})

	controller := difficulty.New()
	controller.WindowSize = cfg.WindowSize
	controller.MinEntries = cfg.WindowMinEntries
	controller.PromoteMean = cfg.PromoteMean
	controller.DemoteMean = cfg.DemoteMean

	service := practice.NewService(store, selector, controller, provider)
	speech := tts.New(cfg.AudioDir)

	b := bot.New(cfg, service, speech)
	if err := b.Connect(); err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	// The scheduler may fire immediately, so the bot must be connected first.
	sched := scheduler.New(b, cfg.DailyTime, cfg.Timezone)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Handle termination signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		sched.Stop()
		b.Stop()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
	log.Println("Bot stopped successfully")
}

func runImport(store *itemstore.Store, path string) {
	result, err := importer.Import(store, importer.DefaultConfig(path))
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	for _, e := range result.Errors {
		log.Printf("Import warning: %s", e)
	}
	log.Printf("Import finished: %d processed, %d created, %d skipped",
		result.TotalProcessed, result.Created, result.Skipped)
}

func runGenerate(store *itemstore.Store, cfg *config.Config, perTopicLevel int) {
	provider, err := ai.New(cfg.LLMProvider, cfg.LLMAPIKey)
	if err != nil {
		log.Fatalf("Failed to create LLM provider: %v", err)
	}

	total, err := generator.Run(store, provider, generator.Options{PerTopicLevel: perTopicLevel})
	if err != nil {
		log.Fatalf("Generation failed after %d items: %v", total, err)
	}
	log.Printf("Generation finished: %d items stored, %d total in store", total, store.Len())
}
