package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"newsroom/internal/config"
	"newsroom/internal/elasticsearch"
	"newsroom/internal/logger"
	"newsroom/internal/models"
	"newsroom/internal/processing"
)

type itemIndexer interface {
	IndexItem(ctx context.Context, item *models.Item) error
}

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // Disable auto-commit; manual commit only
	})
	defer reader.Close()

	dlqWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaTopic + "_dlq",
		MaxAttempts: 3,
	})
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", cfg.KafkaTopic+"_dlq"),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, esClient, cfg, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)

			// Send to DLQ with error context, retry with backoff
			dlqMsg := kafka.Message{
				Value: msg.Value,
				Headers: append(msg.Headers,
					kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
					kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
					kafka.Header{Key: "error", Value: []byte(err.Error())},
					kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
				),
			}

			// Retry DLQ write with exponential backoff
			dlqSuccess := false
			for attempt := 0; attempt < 5; attempt++ {
				if dlqErr := dlqWriter.WriteMessages(ctx, dlqMsg); dlqErr == nil {
					dlqSuccess = true
					log.Info("message sent to DLQ",
						slog.Int("partition", msg.Partition),
						slog.Int64("offset", msg.Offset),
						slog.Int("attempt", attempt+1),
					)
					break
				} else {
					backoff := time.Duration(1<<uint(attempt)) * time.Second
					log.Warn("DLQ write failed, retrying",
						slog.Any("err", dlqErr),
						slog.Int("attempt", attempt+1),
						slog.Duration("backoff", backoff),
					)
					select {
					case <-time.After(backoff):
						// Continue to next attempt
					case <-ctx.Done():
						log.Info("context canceled during DLQ retry")
						return
					}
				}
			}

			// Only commit if DLQ write succeeded; otherwise skip commit and reprocess on restart
			if dlqSuccess {
				if err := reader.CommitMessages(ctx, msg); err != nil {
					log.Error("commit failed message to dlq", slog.Any("err", err))
				}
			} else {
				log.Error("DLQ write exhausted retries, message may be lost if later messages commit",
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
				)
			}
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

func processMessage(ctx context.Context, log *slog.Logger, esClient itemIndexer, cfg *config.Worker, msg kafka.Message) error {
	var item models.Item
	if err := json.Unmarshal(msg.Value, &item); err != nil {
		return err
	}

	if err := normalizeItem(&item, cfg); err != nil {
		return err
	}

	if err := esClient.IndexItem(ctx, &item); err != nil {
		return err
	}

	log.Info("indexed item", slog.String("id", item.ID), slog.String("headline", item.Headline))
	return nil
}

// normalizeItem fills the gaps upstream systems leave: ids, description
// text, version time and a keyword fallback derived from the content.
func normalizeItem(item *models.Item, cfg *config.Worker) error {
	if item.ID == "" {
		item.ID = strings.TrimSpace(item.GUID)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.GUID == "" {
		item.GUID = item.ID
	}

	if item.Type == "" {
		return errors.New("item type missing")
	}
	if item.Headline == "" && item.BodyHTML == "" {
		return errors.New("empty item")
	}

	if item.DescriptionText == "" && item.BodyHTML != "" {
		text := processing.StripMarkup(item.BodyHTML)
		if runes := []rune(text); len(runes) > 200 {
			text = string(runes[:200])
		}
		item.DescriptionText = text
	}

	if item.VersionCreated.IsZero() {
		item.VersionCreated = time.Now().UTC()
	}
	if item.FirstPublished.IsZero() {
		item.FirstPublished = item.VersionCreated
	}
	if item.Version == 0 {
		item.Version = 1
	}

	if len(item.Keywords) == 0 {
		item.Keywords = processing.ExtractKeywords(item.Headline+" "+item.BodyHTML, cfg.KeywordLimit, cfg.KeywordMinLength)
	}

	return nil
}
