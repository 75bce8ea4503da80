package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"realty-agent-be/internal/config"
	"realty-agent-be/internal/entity"
	"realty-agent-be/pkg/database"
	"realty-agent-be/pkg/sensay"

	"github.com/fatih/color"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// Connectivity check for every external dependency the dashboard talks to.
// Run this before filing a bug about a blank dashboard.
func main() {
	color.Cyan("🚀 Realty Agent Backend Diagnostics\n")
	cfg := config.Load()
	failures := 0

	// 1. Postgres
	color.Yellow("\n[1] Postgres")
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed: %v", err)
		failures++
	} else {
		color.Green("Connected")
	}

	// 2. Redis
	color.Yellow("\n[2] Redis")
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		color.Red("Failed: %v (websocket fan-out limited to one instance)", err)
		failures++
	} else {
		color.Green("Connected")
	}

	// 3. NATS
	color.Yellow("\n[3] NATS")
	nc, err := nats.Connect(cfg.App.NatsURL, nats.Timeout(3*time.Second))
	if err != nil {
		color.Red("Failed: %v (notification inbox will stay empty)", err)
		failures++
	} else {
		color.Green("Connected")
		nc.Close()
	}

	// 4. Sensay platform
	color.Yellow("\n[4] Sensay Platform")
	secret := cfg.Sensay.OrganizationSecret
	if db != nil {
		var setting entity.Setting
		if err := db.Where("key = ?", entity.SettingOrganizationSecret).First(&setting).Error; err == nil && setting.Value != "" {
			secret = setting.Value
		}
	}
	if secret == "" {
		color.Red("No organization secret configured (env or settings table)")
		failures++
	} else {
		client, err := sensay.NewClient(sensay.Config{
			BaseURL:            cfg.Sensay.BaseURL,
			APIVersion:         cfg.Sensay.APIVersion,
			OrganizationSecret: secret,
		})
		if err != nil {
			color.Red("Failed to build client: %v", err)
			failures++
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			replicas, err := client.ListReplicas(ctx)
			if err != nil {
				color.Red("Failed: %v", err)
				failures++
			} else {
				color.Green("Authenticated, %d agent(s) visible", len(replicas))
			}
		}
	}

	fmt.Println()
	if failures > 0 {
		color.Red("❌ %d check(s) failed", failures)
		os.Exit(1)
	}
	color.Green("✅ All checks passed")
}
