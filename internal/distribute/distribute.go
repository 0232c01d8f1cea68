// Package distribute optionally shards document-pair processing across
// worker processes over a Kafka topic, as an alternative to the driver's
// local bounded goroutine pool. The core pipeline has no knowledge of
// this package — a document pair processes identically whether it
// arrived locally or off the topic.
package distribute

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	kafka "github.com/segmentio/kafka-go"
)

// Job is one unit of distributed work: a single document pair plus the
// route it was read under.
type Job struct {
	ID        string `json:"id"`
	SrcLang   string `json:"src_lang"`
	TgtLang   string `json:"tgt_lang"`
	SrcURL    string `json:"src_url"`
	TgtURL    string `json:"tgt_url"`
	SrcHTML   []byte `json:"src_html"`
	TgtHTML   []byte `json:"tgt_html"`
	OutPrefix string `json:"out_prefix"`
}

// NewJob stamps a Job with a fresh job ID.
func NewJob(srcLang, tgtLang, srcURL, tgtURL string, srcHTML, tgtHTML []byte, outPrefix string) Job {
	return Job{
		ID:        uuid.NewString(),
		SrcLang:   srcLang,
		TgtLang:   tgtLang,
		SrcURL:    srcURL,
		TgtURL:    tgtURL,
		SrcHTML:   srcHTML,
		TgtHTML:   tgtHTML,
		OutPrefix: outPrefix,
	}
}

// Producer enqueues Jobs onto the distributed work topic.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer builds a Producer writing to topic across brokers.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Enqueue serializes job and writes it as a single Kafka message keyed
// by its job ID. The writer's LeastBytes balancer picks the partition;
// the key does not.
func (p *Producer) Enqueue(ctx context.Context, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("distribute: marshal job: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(job.ID),
		Value: body,
	})
}

// Close releases the underlying Kafka writer's connections.
func (p *Producer) Close() error { return p.writer.Close() }

// Consumer reads Jobs off the distributed work topic for a worker.
type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer builds a Consumer reading topic as member of groupID.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
	}
}

// Next blocks until the next Job is available, or ctx is canceled.
func (c *Consumer) Next(ctx context.Context) (Job, error) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return Job{}, err
	}
	var job Job
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		return Job{}, fmt.Errorf("distribute: unmarshal job: %w", err)
	}
	return job, nil
}

// Close releases the underlying Kafka reader's connections.
func (c *Consumer) Close() error { return c.reader.Close() }
