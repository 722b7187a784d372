package main

import (
	"context"
	"net/http"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	bhttp "github.com/radieske/f1-betting-poc/internal/betting/http"
	kpub "github.com/radieske/f1-betting-poc/internal/betting/producer"
	"github.com/radieske/f1-betting-poc/internal/betting/provider"
	"github.com/radieske/f1-betting-poc/internal/betting/repo"
	"github.com/radieske/f1-betting-poc/internal/betting/service"
	"github.com/radieske/f1-betting-poc/internal/shared/config"
	"github.com/radieske/f1-betting-poc/internal/shared/db"
	"github.com/radieske/f1-betting-poc/internal/shared/logger"
	"github.com/radieske/f1-betting-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("betting-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writers (bet_placed, event_settled)
	brokers := strings.Split(cfg.KafkaBrokers, ",")
	betPlacedWriter := kafkago.NewWriter(kafkago.WriterConfig{
		Brokers:  brokers,
		Topic:    cfg.TopicBetPlaced,
		Balancer: &kafkago.LeastBytes{},
	})
	defer betPlacedWriter.Close()
	eventSettledWriter := kafkago.NewWriter(kafkago.WriterConfig{
		Brokers:  brokers,
		Topic:    cfg.TopicEventSettled,
		Balancer: &kafkago.LeastBytes{},
	})
	defer eventSettledWriter.Close()

	// deps
	store := repo.NewStore(pg)
	prov := provider.New(cfg.EventServiceURL)
	publ := kpub.NewKafkaPublisher(betPlacedWriter, eventSettledWriter)
	svc := service.New(log, store, prov, publ)

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	// HTTP público
	api := bhttp.NewServer(log, svc)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	log.Info("betting-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
