package search

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// Index wraps a Bleve index of products. All methods are safe for
// concurrent use; Rebuild takes the write lock.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the index.
type Options struct {
	// DataPath is the directory holding the index. Empty keeps the index in
	// memory only.
	DataPath string
	Logger   *slog.Logger
}

// mappingVersion is bumped whenever buildIndexMapping changes so existing
// indexes are rebuilt on startup.
const mappingVersion = "1"

// NewIndex opens the index under opts.DataPath, creating it when missing.
// An unreadable index or one built with another mapping version is
// discarded and recreated empty; callers reindex from the store afterwards.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.DataPath == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create memory index: %w", err)
		}
		return &Index{index: index, logger: logger}, nil
	}

	indexPath := filepath.Join(opts.DataPath, "products.bleve")
	versionPath := filepath.Join(opts.DataPath, "products.version")

	var index bleve.Index
	if _, err := os.Stat(indexPath); err == nil {
		existing, readErr := os.ReadFile(versionPath) //#nosec G304 -- path under data dir
		switch {
		case readErr != nil || string(existing) != mappingVersion:
			logger.Info("search mapping version changed, rebuilding",
				"old_version", string(existing),
				"new_version", mappingVersion,
			)
		default:
			if index, err = bleve.Open(indexPath); err != nil {
				logger.Warn("failed to open search index, recreating", "path", indexPath, "error", err)
				index = nil
			}
		}
	}

	if index == nil {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
		if err := os.MkdirAll(opts.DataPath, 0o750); err != nil {
			return nil, fmt.Errorf("create search directory: %w", err)
		}

		var err error
		if index, err = bleve.New(indexPath, buildIndexMapping()); err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o600); err != nil {
			logger.Warn("failed to write search version file", "error", err)
		}
		logger.Info("created search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened search index", "path", indexPath)
	}

	return &Index{index: index, path: indexPath, logger: logger}, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexProduct adds or replaces one product.
func (s *Index) IndexProduct(doc *ProductDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexProducts indexes documents in batches of 500.
func (s *Index) IndexProducts(docs []*ProductDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// DeleteProduct removes a product from the index.
func (s *Index) DeleteProduct(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the number of indexed products.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild replaces the index with an empty one.
func (s *Index) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var (
		index bleve.Index
		err   error
	)
	if s.path == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt search index", "path", s.path)
	return nil
}
