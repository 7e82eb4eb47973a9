package orchestrator

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// BatchItem is one document of a batch.
type BatchItem struct {
	TemplateID string          `json:"templateId"`
	ExtraData  payload.Payload `json:"extraData"`
}

// BatchRequest asks for several documents for the same client.
type BatchRequest struct {
	ClientID     string      `json:"clientId"`
	Documents    []BatchItem `json:"documents"`
	ActingUserID string      `json:"-"`
}

// Skipped records a batch item that failed.
type Skipped struct {
	Index      int    `json:"index"`
	TemplateID string `json:"templateId"`
	Err        error  `json:"-"`
}

// BatchResult summarises a batch. Generated follows input order with failed
// items left out.
type BatchResult struct {
	Message   string    `json:"message"`
	Generated []Result  `json:"generated"`
	Skipped   []Skipped `json:"-"`
}

// GenerateBatch generates every item of req for one client. The client is
// resolved once and a failure there aborts the batch. Items run concurrently;
// a failing item is logged and skipped without affecting the others.
func (o *Orchestrator) GenerateBatch(ctx context.Context, req BatchRequest) (BatchResult, error) {
	if err := o.ready(ctx); err != nil {
		return BatchResult{}, err
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator.GenerateBatch", trace.WithAttributes(
		attribute.String("client.id", req.ClientID),
		attribute.Int("batch.size", len(req.Documents)),
	))
	defer span.End()

	client, err := o.resolveClient(ctx, req.ClientID)
	if err != nil {
		return BatchResult{}, spanError(span, err)
	}

	results := make([]*Result, len(req.Documents))
	errs := make([]error, len(req.Documents))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, item := range req.Documents {
		g.Go(func() error {
			tpl, err := o.resolveTemplate(ctx, item.TemplateID)
			if err == nil {
				var res Result
				res, err = o.generate(ctx, client, tpl, item.ExtraData, req.ActingUserID)
				if err == nil {
					results[i] = &res
					return nil
				}
			}
			errs[i] = err
			o.logger.Warn("batch item skipped",
				"client_id", client.ID,
				"template_id", item.TemplateID,
				"index", i,
				"stage", string(StageOf(err)),
				"error", err,
			)
			return nil
		})
	}
	_ = g.Wait()

	out := BatchResult{Generated: make([]Result, 0, len(req.Documents))}
	for i := range req.Documents {
		if results[i] != nil {
			out.Generated = append(out.Generated, *results[i])
			continue
		}
		out.Skipped = append(out.Skipped, Skipped{Index: i, TemplateID: req.Documents[i].TemplateID, Err: errs[i]})
	}
	out.Message = BatchMessage(len(out.Generated), len(req.Documents))

	span.SetAttributes(attribute.Int("batch.generated", len(out.Generated)))
	return out, nil
}

// BatchMessage formats the batch summary.
func BatchMessage(generated, requested int) string {
	return fmt.Sprintf("%d de %d documentos gerados com sucesso.", generated, requested)
}
