package main

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ctrl-robotics/maintenance-services/api/internal/config"
	"github.com/ctrl-robotics/maintenance-services/api/internal/server"
)

func main() {
	cfg := config.Load()

	var client *mongo.Client
	if cfg.StorageDriver == config.StorageMongo {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
		connected, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			cfg.ServerLog.Fatalf("failed to connect to MongoDB: %v", err)
		}
		client = connected
	}

	app := server.New(cfg, client)
	if err := app.Run(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
