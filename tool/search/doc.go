// Package search implements node search with a primary embedding similarity
// strategy that degrades to substring matching when the embedding provider fails.
package search
