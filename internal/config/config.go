package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	BotToken      string
	ProviderToken string
	DBDSN         string
	WorkflowsDir  string
	WatermarkDir  string
	LogFile       string
	AdminIDs      []int64
	ChannelID     int64
	OpsAddr       string
	Currency      string
	EmailKey      string
}

func Load() Config {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "flowmarket.db"
	} // sqlite file in project root
	wfDir := os.Getenv("WORKFLOWS_DIR")
	if wfDir == "" {
		wfDir = "./workflows"
	}
	wmDir := os.Getenv("WATERMARKED_DIR")
	if wmDir == "" {
		wmDir = "./watermarked"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./flowmarket.log"
	}
	opsAddr := os.Getenv("OPS_ADDR")
	if opsAddr == "" {
		opsAddr = ":8081"
	}
	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "RUB"
	}

	cfg := Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		ProviderToken: os.Getenv("PAY_PROVIDER_TOKEN"),
		DBDSN:         dsn,
		WorkflowsDir:  wfDir,
		WatermarkDir:  wmDir,
		LogFile:       logFile,
		AdminIDs:      parseIDs(os.Getenv("ADMIN_IDS")),
		ChannelID:     parseID(os.Getenv("CHANNEL_ID")),
		OpsAddr:       opsAddr,
		Currency:      currency,
		EmailKey:      os.Getenv("EMAIL_KEY"),
	}
	log.Printf("[config] DB_DSN=%s WORKFLOWS_DIR=%s WATERMARKED_DIR=%s LOG_FILE=%s OPS_ADDR=%s CURRENCY=%s admins=%d channel=%d",
		cfg.DBDSN, cfg.WorkflowsDir, cfg.WatermarkDir, cfg.LogFile, cfg.OpsAddr, cfg.Currency, len(cfg.AdminIDs), cfg.ChannelID)
	return cfg
}

// parseIDs reads a comma-separated list of Telegram user ids.
func parseIDs(s string) []int64 {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("[config] skipping bad admin id %q: %v", part, err)
			continue
		}
		out = append(out, id)
	}
	return out
}

func parseID(s string) int64 {
	if s == "" {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		log.Printf("[config] bad channel id %q: %v", s, err)
		return 0
	}
	return id
}
