package journal

import (
	"context"

	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/mark3labs/rentdesk/internal/logger"
)

// Appender stores journal entries.
type Appender interface {
	Append(ctx context.Context, e Entry) (Entry, error)
}

// Gateway records the outcome of every submission passed to the wrapped
// gateway. Journal failures are logged and never fail the submission.
type Gateway struct {
	next form.Gateway
	log  Appender
}

// NewGateway wraps next.
func NewGateway(next form.Gateway, log Appender) *Gateway {
	return &Gateway{next: next, log: log}
}

// Submit implements form.Gateway.
func (g *Gateway) Submit(ctx context.Context, sub *form.Submission) (form.Record, error) {
	rec, err := g.next.Submit(ctx, sub)

	e := Entry{
		Resource: sub.Resource,
		Action:   sub.Action(),
		RecordID: sub.ID,
		Outcome:  OutcomeOK,
	}
	if err != nil {
		e.Outcome = OutcomeFailed
		e.Message = err.Error()
	} else if id := form.RecordID(rec); id != "" {
		e.RecordID = id
	}

	// The submission is already done; journal it even if ctx was cancelled.
	if _, jerr := g.log.Append(context.WithoutCancel(ctx), e); jerr != nil {
		logger.Warn("Journal append failed for %s %s: %v", e.Resource, e.Action, jerr)
	}
	return rec, err
}
