// Package storage holds the snapshot blob-store implementations. The
// scout.Snapshotter interface abstracts the backend so discovery can run
// against Google Cloud Storage, the local filesystem, or nothing at all.
package storage

import "context"

// NoOpSnapshotter discards snapshots. It is the default when snapshot
// archiving is disabled.
type NoOpSnapshotter struct{}

// Put for NoOpSnapshotter does nothing and returns an empty URI.
func (n *NoOpSnapshotter) Put(_ context.Context, _ string, _ string, _ []byte) (string, error) {
	return "", nil
}
