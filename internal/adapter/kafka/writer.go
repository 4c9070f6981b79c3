package kafka

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/erikahunting/white-shark-paina/internal/config"
	"github.com/erikahunting/white-shark-paina/internal/domain"
)

// depthMessage is the wire form of one normalized record.
type depthMessage struct {
	BatchID       string    `json:"batch_id" msgpack:"batch_id"`
	Source        string    `json:"source" msgpack:"source"`
	Row           int       `json:"row" msgpack:"row"`
	SourceZone    string    `json:"source_zone" msgpack:"source_zone"`
	Depth         float64   `json:"depth_m" msgpack:"depth_m"`
	CanonicalTime time.Time `json:"canonical_time" msgpack:"canonical_time"`
	CanonicalHour int       `json:"canonical_hour" msgpack:"canonical_hour"`
	Policy        string    `json:"policy" msgpack:"policy"`
	Phase         string    `json:"phase" msgpack:"phase"`
	ProcessedAt   time.Time `json:"processed_at" msgpack:"processed_at"`
}

// Writer produces one message per normalized record to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer   *kafkago.Writer
	brokers  []string
	encoding string
	logger   *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, brokers: cfg.KafkaBrokers, encoding: cfg.KafkaEncoding, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// LoadBatch publishes every record of the batch in a single WriteMessages
// call.
func (w *Writer) LoadBatch(ctx context.Context, batch domain.NormalizedBatch) error {
	if len(batch.Records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(batch.Records))
	for i := range batch.Records {
		msg, err := serializeToMessage(batch, batch.Records[i], w.encoding)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(msgs), err)
	}
	w.logger.Debug("batch published", "batch_id", batch.ID, "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

// CheckReadiness dials the first broker.
func (w *Writer) CheckReadiness(ctx context.Context) error {
	if len(w.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	conn, err := kafkago.DialContext(ctx, "tcp", w.brokers[0])
	if err != nil {
		return fmt.Errorf("dial %s: %w", w.brokers[0], err)
	}
	return conn.Close()
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// messageKey is stable across reruns of the same file so compacted topics
// keep one message per source row.
func messageKey(source string, row int) []byte {
	sum := sha256.Sum256([]byte(source + "|" + strconv.Itoa(row)))
	return []byte(hex.EncodeToString(sum[:]))
}

// serializeToMessage encodes one normalized record as JSON or msgpack.
func serializeToMessage(batch domain.NormalizedBatch, rec domain.NormalizedRecord, encoding string) (kafkago.Message, error) {
	payload := depthMessage{
		BatchID:       batch.ID,
		Source:        batch.Source,
		Row:           rec.Row,
		SourceZone:    batch.Zone.Label,
		Depth:         rec.Depth,
		CanonicalTime: rec.CanonicalTime,
		CanonicalHour: rec.CanonicalHour,
		Policy:        string(batch.Policy),
		Phase:         string(rec.Phase),
		ProcessedAt:   batch.ProcessedAt,
	}

	var (
		data []byte
		err  error
	)
	switch encoding {
	case config.EncodingMsgpack:
		data, err = msgpack.Marshal(payload)
	case config.EncodingJSON, "":
		data, err = json.Marshal(payload)
	default:
		return kafkago.Message{}, fmt.Errorf("unsupported encoding %q", encoding)
	}
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize row %d: %w", rec.Row, err)
	}

	return kafkago.Message{
		Key:   messageKey(batch.Source, rec.Row),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "batch_id", Value: []byte(batch.ID)},
			{Key: "source_zone", Value: []byte(batch.Zone.Label)},
			{Key: "policy", Value: []byte(batch.Policy)},
			{Key: "phase", Value: []byte(rec.Phase)},
		},
	}, nil
}
