package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream holding the submission journal.
	StreamName = "rentdesk_submissions"

	subjectRoot = "rentdesk"
	retention   = 90 * 24 * time.Hour
)

// SubjectForSubmission returns the subject a submission outcome is
// published on, e.g. "rentdesk.vehicles.create".
func SubjectForSubmission(resource, action string) string {
	return fmt.Sprintf("%s.%s.%s", subjectRoot, resource, action)
}

// SubjectForResource returns the wildcard subject matching every
// submission of a resource, or of all resources when resource is "".
func SubjectForResource(resource string) string {
	if resource == "" {
		return subjectRoot + ".>"
	}
	return fmt.Sprintf("%s.%s.*", subjectRoot, resource)
}

// SetupStream creates or updates the journal stream with 90-day retention.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{subjectRoot + ".>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   retention,
	})
	if err != nil {
		return nil, fmt.Errorf("setup stream %s: %w", StreamName, err)
	}
	return stream, nil
}

// ReadConsumer creates an ephemeral consumer that replays every message
// matching filter from the start of the stream.
func ReadConsumer(ctx context.Context, stream jetstream.Stream, filter string) (jetstream.Consumer, error) {
	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject:     filter,
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		AckPolicy:         jetstream.AckNonePolicy,
		InactiveThreshold: time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("create consumer: %w", err)
	}
	return consumer, nil
}
