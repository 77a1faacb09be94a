package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/inventory_system/pkg/logging"
)

const (
	writeTimeout = 5 * time.Second
	queueSize    = 256
)

var (
	ErrQueueFull = errors.New("kafka: publish queue full")
	ErrClosed    = errors.New("kafka: producer closed")
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type pending struct {
	msg kafka.Message
	log *slog.Logger
}

// Producer hands events to a background writer. Publish only enqueues, so
// callers never wait on the broker; delivery failures are logged as
// publish_event_error by the writer goroutine.
type Producer struct {
	writer messageWriter
	queue  chan pending
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewProducer writes to every topic through one writer; the topic is set
// per message.
func NewProducer(brokers []string) *Producer {
	return newProducer(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		BatchSize:              1,
		BatchTimeout:           5 * time.Millisecond,
		WriteTimeout:           writeTimeout,
	})
}

func newProducer(w messageWriter) *Producer {
	p := &Producer{
		writer: w,
		queue:  make(chan pending, queueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Producer) run() {
	defer close(p.done)
	for item := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := p.writer.WriteMessages(ctx, item.msg); err != nil {
			item.log.Warn("publish_event_error", "topic", item.msg.Topic, "key", string(item.msg.Key), "error", err)
		}
		cancel()
	}
}

func message(ev Event) (kafka.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	key := strconv.FormatInt(ev.OrderID, 10)
	if ev.OrderID == 0 {
		key = strconv.FormatInt(ev.UserID, 10)
	}
	return kafka.Message{
		Topic: ev.Topic(),
		Key:   []byte(key),
		Value: data,
		Time:  ev.At,
	}, nil
}

// Publish enqueues ev and returns at once. It fails only when the event
// cannot be encoded, the queue is full or the producer is closed.
func (p *Producer) Publish(ctx context.Context, ev Event) error {
	msg, err := message(ev)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- pending{msg: msg, log: logging.FromContext(ctx)}:
		return nil
	default:
		return fmt.Errorf("%w: dropped %s", ErrQueueFull, msg.Topic)
	}
}

// Close flushes what is queued and closes the writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return errors.New("kafka: producer not initialised")
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.writer.Close()
}

// New picks the Kafka producer when brokers are configured and Noop otherwise.
func New(brokers []string) Publisher {
	if len(brokers) == 0 {
		return Noop{}
	}
	return NewProducer(brokers)
}
