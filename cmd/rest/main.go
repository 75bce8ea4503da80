package main

import (
	"context"
	"log"

	"realty-agent-be/internal/bootstrap"
	"realty-agent-be/internal/config"
	"realty-agent-be/internal/server"
	"realty-agent-be/internal/tracer"
	"realty-agent-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.TrackerService.Stop()

	if err := container.ConsumerService.Start(context.Background()); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
