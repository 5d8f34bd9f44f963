package tier

import "github.com/KirkDiggler/rpg-loot/internal/entities/loot"

// AggregateInput defines the request for aggregating one tier
type AggregateInput struct {
	Tier loot.Tier
}

// AggregateOutput defines the response for aggregating one tier
type AggregateOutput struct {
	Report *loot.TierReport
	// RunID correlates the log lines of this aggregation
	RunID string
}
