package main

import (
	"io"
	"log"
	"os"

	"flowmarket/internal/bot"
	"flowmarket/internal/config"
	"flowmarket/internal/ops"
	"flowmarket/internal/repos"
	"flowmarket/internal/secrets"
	"flowmarket/internal/services"
	"flowmarket/internal/watermark"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	workflowRepo := repos.NewWorkflowRepo(db)
	purchaseRepo := repos.NewPurchaseRepo(db)
	settingsRepo := repos.NewSettingsRepo(db)
	userRepo := repos.NewUserRepo(db)
	deliveryRepo := repos.NewDeliveryLogRepo(db)

	catalogSvc := services.NewCatalogService(workflowRepo)
	pricingSvc := services.NewPricingService(settingsRepo)

	var emails *secrets.Box
	if cfg.EmailKey != "" {
		emails, err = secrets.New(cfg.EmailKey)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("[warn] EMAIL_KEY not set; buyer emails will be stored unencrypted")
	}

	tb, err := bot.NewTelebot(cfg)
	if err != nil {
		log.Fatal(err)
	}
	courier := bot.NewCourier(tb)

	fulfillSvc := &services.FulfillmentService{
		Catalog:      catalogSvc,
		Pricing:      pricingSvc,
		Purchases:    purchaseRepo,
		Users:        userRepo,
		Deliveries:   deliveryRepo,
		Personalizer: watermark.New(cfg.WatermarkDir),
		Courier:      courier,
		Inviter:      courier,
		Emails:       emails,
		WorkflowsDir: cfg.WorkflowsDir,
		Currency:     cfg.Currency,
		ChannelID:    cfg.ChannelID,
	}

	b := bot.New(tb, cfg, bot.Deps{
		Users:       userRepo,
		Purchases:   purchaseRepo,
		Catalog:     catalogSvc,
		Pricing:     pricingSvc,
		Fulfillment: fulfillSvc,
	})

	// Ops surface (healthz, stats)
	go func() {
		app := ops.New(workflowRepo, purchaseRepo, deliveryRepo)
		if err := app.Listen(cfg.OpsAddr); err != nil {
			log.Fatal(err)
		}
	}()

	log.Println("[bot] starting long polling")
	b.Start()
}
