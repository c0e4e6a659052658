package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kislikjeka/txfeed/internal/module/txlist"
	"github.com/kislikjeka/txfeed/pkg/logger"
)

// SubjectPrefix is followed by the user ID on every click subject
const SubjectPrefix = "txfeed.clicks."

// Conn is the subset of *nats.Conn the publisher needs
type Conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// PublishRecorder receives publish metrics
type PublishRecorder interface {
	RecordNATSPublish(subject, status string, duration float64)
}

// ClickPublisher is a txlist.EventSink publishing click events as JSON
type ClickPublisher struct {
	conn     Conn
	recorder PublishRecorder
	logger   *logger.Logger
}

// Connect dials NATS and returns a publisher on the connection
func Connect(natsURL string, recorder PublishRecorder, log *logger.Logger) (*ClickPublisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("txfeed-clicks"),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("NATS publisher initialized", "url", natsURL, "subject", SubjectPrefix+"*")
	return NewClickPublisher(nc, recorder, log), nil
}

// NewClickPublisher creates a publisher on an existing connection. recorder may be nil.
func NewClickPublisher(conn Conn, recorder PublishRecorder, log *logger.Logger) *ClickPublisher {
	return &ClickPublisher{
		conn:     conn,
		recorder: recorder,
		logger:   log.WithField("component", "click_publisher"),
	}
}

// Subject returns the subject a user's click events are published on
func Subject(event txlist.ItemClicked) string {
	return SubjectPrefix + event.UserID.String()
}

// Publish sends the event. The context is checked before publishing since
// core NATS publishes are fire-and-forget.
func (p *ClickPublisher) Publish(ctx context.Context, event txlist.ItemClicked) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := Subject(event)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal click event: %w", err)
	}

	start := time.Now()
	err = p.conn.Publish(subject, data)
	p.record(subject, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to publish click event: %w", err)
	}

	p.logger.Debug("published click event",
		"subject", subject,
		"event_id", event.ID,
		"hash", event.Transaction.Hash,
	)
	return nil
}

func (p *ClickPublisher) record(subject string, err error, d time.Duration) {
	if p.recorder == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	p.recorder.RecordNATSPublish(subject, status, d.Seconds())
}

// Close closes the connection to NATS
func (p *ClickPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
		p.logger.Info("NATS publisher closed")
	}
	return nil
}
