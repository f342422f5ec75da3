package checks

import (
	"context"
	"fmt"

	"relationship-manager/core/searchindex"
)

// IndexReport describes the search index.
type IndexReport struct {
	Prefix    string `json:"prefix"`
	Reachable bool   `json:"reachable"`
	Artists   int64  `json:"artists"`
	Studios   int64  `json:"studios"`
	Error     string `json:"error,omitempty"`
}

// CheckIndex pings the index and counts the indexed entities.
// Unreachability is reported, not returned.
func CheckIndex(ctx context.Context, client *searchindex.Client) (*IndexReport, error) {
	if client == nil {
		return nil, fmt.Errorf("search index client is nil")
	}
	report := &IndexReport{Prefix: client.Prefix()}

	if err := client.Ping(ctx); err != nil {
		report.Error = err.Error()
		return report, nil
	}
	report.Reachable = true

	rdb := client.Redis()
	artists, err := rdb.ZCard(ctx, client.Key("artists")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to count indexed artists: %w", err)
	}
	studios, err := rdb.ZCard(ctx, client.Key("studios")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to count indexed studios: %w", err)
	}
	report.Artists, report.Studios = artists, studios
	return report, nil
}
