package services

import (
	"context"
	"sync"

	"github.com/campus-labs/examchat/internal/core/ports/driving"
	"github.com/campus-labs/examchat/internal/logger"
)

// Ensure IndexManager implements the interface.
var _ driving.IndexService = (*IndexManager)(nil)

// IndexManager guards the process-wide index build. The build runs at
// most once no matter how many connections arrive concurrently; a
// failed build leaves the manager not ready so the next caller
// retries instead of caching the failure forever.
type IndexManager struct {
	mu       sync.Mutex
	ready    bool
	ingestor *Ingestor
}

// NewIndexManager creates an index manager around the ingestor.
func NewIndexManager(ingestor *Ingestor) *IndexManager {
	return &IndexManager{ingestor: ingestor}
}

// EnsureReady builds or loads the index exactly once. Concurrent
// callers block until the in-flight build completes.
func (m *IndexManager) EnsureReady(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ready {
		return nil
	}

	if err := m.ingestor.LoadOrBuild(ctx); err != nil {
		logger.Error("Index build failed: %v", err)
		return err
	}

	m.ready = true
	return nil
}

// Ready reports whether a build has completed.
func (m *IndexManager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Counts reports the number of persisted summaries and chunks.
func (m *IndexManager) Counts(ctx context.Context) (summaries, chunks int, err error) {
	return m.ingestor.counts(ctx)
}
