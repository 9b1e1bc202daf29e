package main

import (
	"log"

	"go-attend/internal/app"
	"go-attend/internal/bootstrap"
	"go-attend/internal/config"
	"go-attend/internal/events"
	"go-attend/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := connection.ConnectGORMWithRetry(
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, 5,
	)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("unwrap sql.DB", zap.Error(err))
	}

	if err := app.Migrate(db); err != nil {
		logger.Fatal("migrate schema", zap.Error(err))
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		writer := &kafkago.Writer{
			Addr:     kafkago.TCP(cfg.KafkaBrokers...),
			Balancer: &kafkago.LeastBytes{},
		}
		defer writer.Close()
		publisher = events.NewKafkaPublisher(writer)
	}

	reg, err := app.BuildRegistry(db, sqlDB, rdb, publisher, cfg, logger)
	if err != nil {
		logger.Fatal("build registry", zap.Error(err))
	}

	router := app.BuildRouter(reg, rdb, logger)
	if err := bootstrap.RunServer(":"+cfg.Port, router, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
