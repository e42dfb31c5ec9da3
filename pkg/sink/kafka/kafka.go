// Package kafka implements a record sink that publishes each employee as a
// JSON message through a synchronous sarama producer.
package kafka

import (
	"context"
	"strings"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/logger"
	"github.com/ajitpratap0/datagen/pkg/models"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

// Store sends each batch with SendMessages. Messages acknowledged by the
// brokers cannot be retracted, so Rollback only closes the producer.
type Store struct {
	producer sarama.SyncProducer
	topic    string
	sent     int64
	logger   *zap.Logger
}

// NewStore wraps an existing producer.
func NewStore(producer sarama.SyncProducer, topic string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{producer: producer, topic: topic, logger: log}
}

// ProducerConfig builds the sarama configuration for kc.
func ProducerConfig(kc config.KafkaConfig) (*sarama.Config, error) {
	sc := sarama.NewConfig()
	sc.ClientID = kc.ClientID
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	if kc.Timeout > 0 {
		sc.Net.DialTimeout = kc.Timeout
		sc.Net.ReadTimeout = kc.Timeout
		sc.Net.WriteTimeout = kc.Timeout
		sc.Producer.Timeout = kc.Timeout
	}

	codec, err := parseCodec(kc.Compression)
	if err != nil {
		return nil, err
	}
	sc.Producer.Compression = codec

	if err := sc.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid kafka producer configuration")
	}
	return sc, nil
}

func parseCodec(name string) (sarama.CompressionCodec, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return sarama.CompressionNone, nil
	case "gzip":
		return sarama.CompressionGZIP, nil
	case "snappy":
		return sarama.CompressionSnappy, nil
	case "lz4":
		return sarama.CompressionLZ4, nil
	case "zstd":
		return sarama.CompressionZSTD, nil
	default:
		return sarama.CompressionNone, errors.Newf(errors.ErrorTypeConfig, "unsupported kafka compression %q", name)
	}
}

// Message converts rec to a producer message keyed by email.
func Message(topic string, rec models.Employee) (*sarama.ProducerMessage, error) {
	value, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to encode record")
	}
	return &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(rec.Email),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	}, nil
}

// Insert publishes batch and waits for every acknowledgement
func (s *Store) Insert(ctx context.Context, batch []models.Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(batch))
	for _, rec := range batch {
		msg, err := Message(s.topic, rec)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := s.producer.SendMessages(msgs); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to publish batch").
			WithDetail("topic", s.topic).
			WithDetail("sent", s.sent)
	}
	s.sent += int64(len(msgs))
	return nil
}

// Commit closes the producer
func (s *Store) Commit(context.Context) error {
	if err := s.producer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to close kafka producer")
	}
	s.logger.Debug("kafka producer closed", zap.Int64("sent", s.sent))
	return nil
}

// Rollback closes the producer. Already published messages stay on the topic.
func (s *Store) Rollback(context.Context) error {
	if s.sent > 0 {
		s.logger.Warn("published messages cannot be retracted",
			zap.String("topic", s.topic),
			zap.Int64("sent", s.sent))
	}
	if err := s.producer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to close kafka producer")
	}
	return nil
}

// Sent returns the number of acknowledged messages
func (s *Store) Sent() int64 {
	return s.sent
}

// New creates the kafka sink from cfg.Sinks.Kafka.
func New(ctx context.Context, cfg *config.Config) (sink.Writer, error) {
	kc := cfg.Sinks.Kafka
	if len(kc.Brokers) == 0 || kc.Topic == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "kafka sink requires brokers and topic")
	}

	sc, err := ProducerConfig(kc)
	if err != nil {
		return nil, err
	}

	producer, err := sarama.NewSyncProducer(kc.Brokers, sc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create kafka producer").
			WithDetail("brokers", kc.Brokers)
	}

	log := logger.WithContext(ctx)
	log.Info("connected to kafka",
		zap.Strings("brokers", kc.Brokers),
		zap.String("topic", kc.Topic))
	return sink.NewBatchWriter(NewStore(producer, kc.Topic, log), cfg.Output.BatchSize), nil
}
