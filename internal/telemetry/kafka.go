package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/san-kum/novacore/internal/experiment"
	"github.com/san-kum/novacore/internal/loop"
)

const DefaultBatchSize = 500

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// Reading is the wire form of one published sample.
type Reading struct {
	RunID    string `json:"run_id"`
	Step     int    `json:"step"`
	Time     Float  `json:"time_s"`
	CO2      Float  `json:"co2_mol"`
	O2       Float  `json:"o2_mol"`
	Temp     Float  `json:"temp_c"`
	Humidity Float  `json:"humidity_au"`
}

func newReading(runID string, step int, s loop.Sample) Reading {
	return Reading{
		RunID:    runID,
		Step:     step,
		Time:     Float(s.Time),
		CO2:      Float(s.CO2),
		O2:       Float(s.O2),
		Temp:     Float(s.Temp),
		Humidity: Float(s.Humidity),
	}
}

// Publisher streams a run's samples as JSON messages keyed by run ID.
type Publisher struct {
	w         MessageWriter
	log       *slog.Logger
	batchSize int
}

func NewPublisher(w MessageWriter, log *slog.Logger, batchSize int) *Publisher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{w: w, log: log, batchSize: batchSize}
}

// Publish sends every sample of result and returns how many were written.
func (p *Publisher) Publish(ctx context.Context, result *experiment.Result) (int, error) {
	tr := result.Trajectory
	key := []byte(result.ID)
	batch := make([]kafka.Message, 0, p.batchSize)
	sent := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.w.WriteMessages(ctx, batch...); err != nil {
			p.log.Error("kafka write failed", "run", result.ID, "err", err)
			return fmt.Errorf("publish step %d: %w", sent, err)
		}
		sent += len(batch)
		p.log.Debug("published batch", "run", result.ID, "messages", len(batch))
		batch = batch[:0]
		return nil
	}

	for i := 0; i < tr.Len(); i++ {
		b, err := json.Marshal(newReading(result.ID, i, tr.Sample(i)))
		if err != nil {
			return sent, err
		}
		batch = append(batch, kafka.Message{Key: key, Value: b})
		if len(batch) == p.batchSize {
			if err := flush(); err != nil {
				return sent, err
			}
		}
	}
	if err := flush(); err != nil {
		return sent, err
	}

	p.log.Info("published", "run", result.ID, "messages", sent)
	return sent, nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
