package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	ActionUpload = "upload"
	ActionDelete = "delete"

	StatusOK    = "ok"
	StatusError = "error"
)

// Event is the outcome of one remote call during a sync run.
type Event struct {
	RunID      string    `json:"run_id"`
	OfferID    string    `json:"offer_id"`
	ProductKey string    `json:"product_key,omitempty"`
	Action     string    `json:"action"`
	Status     string    `json:"status"`
	Hash       string    `json:"hash,omitempty"`
	Message    string    `json:"message,omitempty"`
	DryRun     bool      `json:"dry_run,omitempty"`
	TS         time.Time `json:"ts"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Multi fans out to several publishers. The first error wins but every
// publisher still sees the event.
type Multi struct {
	pubs []Publisher
}

func NewMulti(pubs ...Publisher) *Multi {
	return &Multi{pubs: pubs}
}

func (m *Multi) Publish(ctx context.Context, e Event) error {
	var first error
	for _, p := range m.pubs {
		if err := p.Publish(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Multi) Close() error {
	var first error
	for _, p := range m.pubs {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// FileWriter appends events as NDJSON.
type FileWriter struct {
	mu   sync.Mutex
	path string
}

func NewFileWriter(path string) (*FileWriter, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	return &FileWriter{path: path}, nil
}

func (w *FileWriter) Publish(ctx context.Context, e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(&e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func (w *FileWriter) Close() error { return nil }

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes events to a topic keyed by offer id, so all events
// of one offer land on the same partition.
type KafkaPublisher struct {
	writer kafkaMessageWriter
}

// NewKafkaPublisher takes a comma-separated broker list.
func NewKafkaPublisher(brokers string, topic string) *KafkaPublisher {
	var addrs []string
	for _, a := range strings.Split(brokers, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}}
}

// NewKafkaPublisherWith is only for tests to inject a fake writer.
func NewKafkaPublisherWith(w kafkaMessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (k *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(&e)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.OfferID), Value: b})
}

func (k *KafkaPublisher) Close() error {
	if c, ok := k.writer.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
