// Package metrics keeps process-wide operational counters.
package metrics

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var counters struct {
	SearchRequests     atomic.Int64
	MetadataRequests   atomic.Int64
	MetadataErrors     atomic.Int64
	RephraseRequests   atomic.Int64
	LensRequests       atomic.Int64
	SimilarityRequests atomic.Int64
	ProviderCalls      atomic.Int64
	ProviderErrors     atomic.Int64
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
	SnapshotsWritten   atomic.Int64
	SnapshotErrors     atomic.Int64
}

var order = []string{
	"search_requests", "metadata_requests", "metadata_errors",
	"rephrase_requests", "lens_requests", "similarity_requests",
	"provider_calls", "provider_errors",
	"cache_hits", "cache_misses",
	"snapshots_written", "snapshot_errors",
}

// Snapshot returns the current value of every counter.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"search_requests":     counters.SearchRequests.Load(),
		"metadata_requests":   counters.MetadataRequests.Load(),
		"metadata_errors":     counters.MetadataErrors.Load(),
		"rephrase_requests":   counters.RephraseRequests.Load(),
		"lens_requests":       counters.LensRequests.Load(),
		"similarity_requests": counters.SimilarityRequests.Load(),
		"provider_calls":      counters.ProviderCalls.Load(),
		"provider_errors":     counters.ProviderErrors.Load(),
		"cache_hits":          counters.CacheHits.Load(),
		"cache_misses":        counters.CacheMisses.Load(),
		"snapshots_written":   counters.SnapshotsWritten.Load(),
		"snapshot_errors":     counters.SnapshotErrors.Load(),
	}
}

// Format renders counters as "name value" lines for the /metrics endpoint.
func Format() string {
	m := Snapshot()
	var sb strings.Builder
	for _, k := range order {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

func IncrSearch()           { counters.SearchRequests.Add(1) }
func IncrMetadata()         { counters.MetadataRequests.Add(1) }
func IncrMetadataError()    { counters.MetadataErrors.Add(1) }
func IncrRephrase()         { counters.RephraseRequests.Add(1) }
func IncrLens()             { counters.LensRequests.Add(1) }
func IncrSimilarity()       { counters.SimilarityRequests.Add(1) }
func IncrProviderCall()     { counters.ProviderCalls.Add(1) }
func IncrProviderError()    { counters.ProviderErrors.Add(1) }
func IncrCacheHit()         { counters.CacheHits.Add(1) }
func IncrCacheMiss()        { counters.CacheMisses.Add(1) }
func IncrSnapshotWritten()  { counters.SnapshotsWritten.Add(1) }
func IncrSnapshotError()    { counters.SnapshotErrors.Add(1) }
