package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/librisys/librisys/config"
	"github.com/librisys/librisys/internal/handler"
	"github.com/librisys/librisys/internal/repository"
	"github.com/librisys/librisys/internal/server"
	"github.com/librisys/librisys/internal/service"
	"github.com/librisys/librisys/migrations"
	"github.com/librisys/librisys/pkg/kafka"
	"github.com/librisys/librisys/pkg/logger"
	"github.com/librisys/librisys/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "librisys")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo init %v", err)
	}

	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled() {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka producer %v", err)
		}
	}

	jwtKey := []byte(cfg.JWT.Secret)
	svc := service.NewService(repo, log, producer, jwtKey)
	h := handler.New(svc, svc, svc, svc, svc, log)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	go svc.RunFineWorker(workerCtx, cfg.Fines.RecalcInterval)

	srv := server.NewServer(cfg.Server, h.NewRouter(jwtKey))
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	workerCancel()

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
