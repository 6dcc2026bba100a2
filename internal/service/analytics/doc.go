// Package analytics computes reporting aggregates live from the campaign
// event log. Nothing here is precomputed or cached: every stats request
// counts rows at read time, so numbers always reflect the latest events.
package analytics
