package memory

import (
	"context"
	"errors"
	"sync"

	"orgchart-backend/domain/chart"

	"go.uber.org/zap"
)

// Errors returned while fault injection is switched on.
var (
	ErrWriteRejected = errors.New("memory store: write rejected")
	ErrReadRejected  = errors.New("memory store: read rejected")
)

// ChartStore keeps the encoded chart document in memory. It is used for local
// runs and tests.
type ChartStore struct {
	mu        sync.RWMutex
	doc       []byte
	present   bool
	writes    int
	fail      bool
	failReads bool
	logger    *zap.Logger
}

// NewChartStore creates an uninitialized in-memory store
func NewChartStore(logger *zap.Logger) *ChartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChartStore{logger: logger}
}

// Read decodes the stored document. A corrupt document reads as empty.
func (s *ChartStore) Read(ctx context.Context) chart.Collection {
	c, err := s.Load(ctx)
	if err != nil {
		s.logger.Error("Stored chart is unreadable", zap.Error(err))
		return chart.Collection{}
	}
	return c
}

// Load decodes the stored document, failing on a corrupt one
func (s *ChartStore) Load(ctx context.Context) (chart.Collection, error) {
	s.mu.RLock()
	doc, present, failReads := s.doc, s.present, s.failReads
	s.mu.RUnlock()

	if failReads {
		return nil, ErrReadRejected
	}
	if !present {
		return chart.Collection{}, nil
	}
	return chart.Decode(doc)
}

// Write replaces the document
func (s *ChartStore) Write(ctx context.Context, c chart.Collection) error {
	doc, err := chart.Encode(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return ErrWriteRejected
	}
	s.doc = doc
	s.present = true
	s.writes++
	return nil
}

// Reset forgets the document
func (s *ChartStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	s.present = false
	return nil
}

// Initialize writes the seed chart unless a document already exists
func (s *ChartStore) Initialize(ctx context.Context) error {
	s.mu.RLock()
	present := s.present
	s.mu.RUnlock()
	if present {
		return nil
	}
	return s.Write(ctx, chart.Seed())
}

// Raw returns the stored bytes and whether a document exists.
func (s *ChartStore) Raw() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]byte, len(s.doc))
	copy(out, s.doc)
	return out, s.present
}

// SetRaw stores bytes as-is, bypassing encoding.
func (s *ChartStore) SetRaw(doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = append([]byte(nil), doc...)
	s.present = true
}

// Writes counts successful writes.
func (s *ChartStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// FailReads makes every subsequent Load fail until cleared.
func (s *ChartStore) FailReads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = fail
}

// FailWrites makes every subsequent Write fail until cleared.
func (s *ChartStore) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}
