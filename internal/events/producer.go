// Package events publishes bill lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"retailshop/m/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	l     *slog.Logger
	w     messageWriter
	topic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return newProducer(l, w, topic)
}

func newProducer(l *slog.Logger, w messageWriter, topic string) *Producer {
	return &Producer{l: l, w: w, topic: topic}
}

type BillCreatedEvent struct {
	ID           string          `json:"id"`
	InvoiceNo    string          `json:"invoice_no"`
	Type         domain.BillType `json:"type"`
	Date         time.Time       `json:"date"`
	CustomerName string          `json:"customer_name"`
	InterState   bool            `json:"inter_state"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	Items        int             `json:"items"`
	BilledBy     string          `json:"billed_by"`
}

// BillCreated publishes a bill.created event keyed by invoice number.
func (p *Producer) BillCreated(ctx context.Context, bill domain.Bill) error {
	event := BillCreatedEvent{
		ID:           bill.ID,
		InvoiceNo:    bill.InvoiceNo,
		Type:         bill.Type,
		Date:         bill.Date,
		CustomerName: bill.CustomerName,
		InterState:   bill.InterState,
		Subtotal:     bill.Subtotal,
		Tax:          bill.CGST.Add(bill.SGST).Add(bill.IGST),
		Total:        bill.Total,
		Items:        len(bill.Items),
		BilledBy:     bill.BilledBy,
	}

	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(bill.InvoiceNo),
		Value: b,
		Topic: p.topic,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("bill.created")},
		},
	})
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	return nil
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) BillCreated(context.Context, domain.Bill) error { return nil }

func (Nop) Close() {}

type infoLogger struct {
	l *slog.Logger
}

func (l *infoLogger) Printf(format string, v ...any) {
	l.l.Debug(fmt.Sprintf(format, v...))
}

type errorLogger struct {
	l *slog.Logger
}

func (l *errorLogger) Printf(format string, v ...any) {
	l.l.Error(fmt.Sprintf(format, v...))
}
