// Package journal keeps an append-only log of submission outcomes in an
// embedded JetStream stream.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/rentdesk/internal/logger"
	"github.com/mark3labs/rentdesk/internal/nats"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Outcomes of a submission.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Entry is one submission outcome.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Resource  string    `json:"resource"`
	Action    string    `json:"action"` // create or update
	RecordID  string    `json:"record_id,omitempty"`
	Outcome   string    `json:"outcome"`
	Message   string    `json:"message,omitempty"`
	Seq       uint64    `json:"-"`
}

// Journal owns the embedded server, its connection and the stream.
type Journal struct {
	ns     *server.Server
	nc     *natsgo.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
}

// Open starts the embedded server with storage under dir and makes sure the
// journal stream exists.
func Open(ctx context.Context, dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	ns, err := nats.StartEmbeddedNATS(dir)
	if err != nil {
		return nil, err
	}
	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		_ = nats.Shutdown(nil, ns)
		return nil, err
	}
	js, err := nats.CreateJetStream(nc)
	if err != nil {
		_ = nats.Shutdown(nc, ns)
		return nil, err
	}
	stream, err := nats.SetupStream(ctx, js)
	if err != nil {
		_ = nats.Shutdown(nc, ns)
		return nil, err
	}

	logger.Debug("Journal opened at %s", dir)
	return &Journal{ns: ns, nc: nc, js: js, stream: stream}, nil
}

// Close stops the embedded server.
func (j *Journal) Close() error {
	return nats.Shutdown(j.nc, j.ns)
}

// Append publishes e, filling in its id and timestamp when unset.
func (j *Journal) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return e, fmt.Errorf("marshal entry: %w", err)
	}

	subject := nats.SubjectForSubmission(e.Resource, e.Action)
	ack, err := j.js.Publish(ctx, subject, data)
	if err != nil {
		return e, fmt.Errorf("publish to %s: %w", subject, err)
	}
	e.Seq = ack.Sequence
	logger.Debug("Journal entry %s published: seq=%d", e.ID, ack.Sequence)
	return e, nil
}

// Recent returns at most limit entries, oldest first. An empty resource
// matches every resource; limit <= 0 returns everything.
func (j *Journal) Recent(ctx context.Context, resource string, limit int) ([]Entry, error) {
	consumer, err := nats.ReadConsumer(ctx, j.stream, nats.SubjectForResource(resource))
	if err != nil {
		return nil, err
	}

	const batchSize = 500
	var entries []Entry
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var e Entry
			if err := json.Unmarshal(msg.Data(), &e); err != nil {
				logger.Warn("Skipping malformed journal entry on %s: %v", msg.Subject(), err)
				continue
			}
			if meta, err := msg.Metadata(); err == nil {
				e.Seq = meta.Sequence.Stream
				if e.ID == "" {
					e.ID = strconv.FormatUint(e.Seq, 10)
				}
			}
			entries = append(entries, e)
		}
		if count < batchSize {
			break
		}
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
