package kitstash

import (
	"context"

	"github.com/agentstation/kitstash/pkg/enrichment"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
	"github.com/agentstation/kitstash/pkg/records"
)

// Compile-time interface check to ensure proper implementation.
var _ Enricher = (*client)(nil)

// Enrich runs the enrichment pipeline for url without touching any record.
func (c *client) Enrich(ctx context.Context, url string) (enrichment.Result, error) {
	if c.pipeline == nil {
		return enrichment.Result{}, errors.NewConfigError("relay", "relay URL is not configured", nil)
	}
	return c.pipeline.Run(ctx, url)
}

// EnrichKit enriches the stored kit kitID from url and saves the merged
// kit. On an enrichment failure the stored kit is unchanged.
func (c *client) EnrichKit(ctx context.Context, kitID, url string) (records.Kit, enrichment.Result, error) {
	if c.pipeline == nil {
		return records.Kit{}, enrichment.Result{}, errors.NewConfigError("relay", "relay URL is not configured", nil)
	}
	ctx = logging.WithKit(ctx, kitID)

	sess, err := c.library.EditKit(kitID)
	if err != nil {
		return records.Kit{}, enrichment.Result{}, err
	}
	defer sess.Cancel()

	res, err := sess.Enrich(ctx, c.pipeline, url)
	if err != nil {
		return sess.Kit(), res, err
	}
	if _, err := sess.Save(ctx); err != nil {
		return sess.Kit(), res, err
	}

	for _, soft := range res.SoftFailures {
		logging.FromContext(ctx).Warn().
			Str("stage", string(soft.Stage)).
			Str("category", string(soft.Category)).
			Msg("Enrichment finished with a soft failure")
	}
	return sess.Kit(), res, nil
}
