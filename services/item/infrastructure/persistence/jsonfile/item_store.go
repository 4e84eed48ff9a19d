// Package jsonfile persists the item collection as a single pretty-printed
// JSON array on the local filesystem.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/kjk/common/atomicfile"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/itemstore/pkg/logger"
	itemdomain "github.com/ghuser/itemstore/services/item/domain"
	"github.com/ghuser/itemstore/services/item/domain/models"
	"github.com/ghuser/itemstore/services/item/domain/repositories"
)

const tracerName = "github.com/ghuser/itemstore/services/item/infrastructure/persistence/jsonfile"

var errNilItems = errors.New("items must not be nil")

// Option configures an ItemStore.
type Option func(*ItemStore)

// WithAtomicWrites selects how Save replaces the file. When on (the default)
// the collection is written to a temp file, fsynced and renamed over the
// target. When off the target is truncated and rewritten in place.
func WithAtomicWrites(on bool) Option {
	return func(s *ItemStore) { s.atomic = on }
}

// ItemStore implements repositories.ItemRepository on top of one JSON file.
//
// Reads share a read lock; Save and Update hold the write lock, so a
// load-modify-save cycle run through Update is never interleaved with
// another writer in the same process.
type ItemStore struct {
	path   string
	atomic bool
	mu     sync.RWMutex
	log    logger.Logger
	tracer trace.Tracer
}

var _ repositories.ItemRepository = (*ItemStore)(nil)

// NewItemStore returns an ItemStore backed by the file at path. The file and
// its parent directory are created lazily on first use.
func NewItemStore(path string, log logger.Logger, opts ...Option) *ItemStore {
	s := &ItemStore{
		path:   path,
		atomic: true,
		log:    log.With("store", "jsonfile", "path", path),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *ItemStore) Path() string {
	return s.path
}

// Load returns every stored item in storage order.
//
// A missing file is treated as an empty collection and immediately persisted
// as "[]". Unparseable content or a non-array top level fails with
// ErrCorruptData; other read failures fail with ErrStorageUnavailable.
func (s *ItemStore) Load(ctx context.Context) ([]*models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "jsonfile.Load")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, endSpan(span, err)
	}

	s.mu.RLock()
	items, err := s.read()
	s.mu.RUnlock()
	if !errors.Is(err, fs.ErrNotExist) {
		span.SetAttributes(attribute.Int("items.count", len(items)))
		return items, endSpan(span, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have bootstrapped the file between the two locks.
	items, err = s.read()
	if errors.Is(err, fs.ErrNotExist) {
		s.log.InfoContext(ctx, "data file missing, bootstrapping empty collection")
		items = []*models.Item{}
		err = s.write(items)
	}
	span.SetAttributes(attribute.Int("items.count", len(items)))
	if err != nil {
		return nil, endSpan(span, err)
	}
	return items, nil
}

// Save replaces the persisted collection with items.
func (s *ItemStore) Save(ctx context.Context, items []*models.Item) error {
	ctx, span := s.tracer.Start(ctx, "jsonfile.Save")
	defer span.End()

	if items == nil {
		return endSpan(span, errNilItems)
	}
	if err := ctx.Err(); err != nil {
		return endSpan(span, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	span.SetAttributes(attribute.Int("items.count", len(items)))
	if err := s.write(items); err != nil {
		s.log.ErrorContext(ctx, "save failed", "error", err)
		return endSpan(span, err)
	}
	return nil
}

// Update runs fn over the current collection and persists its result, all
// under the write lock. A missing file is handed to fn as an empty collection.
func (s *ItemStore) Update(ctx context.Context, fn repositories.UpdateFunc) error {
	ctx, span := s.tracer.Start(ctx, "jsonfile.Update")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return endSpan(span, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read()
	if errors.Is(err, fs.ErrNotExist) {
		items, err = []*models.Item{}, nil
	}
	if err != nil {
		return endSpan(span, err)
	}

	next, err := fn(items)
	if err != nil {
		return endSpan(span, err)
	}
	if next == nil {
		return endSpan(span, errNilItems)
	}

	span.SetAttributes(attribute.Int("items.count", len(next)))
	if err := s.write(next); err != nil {
		s.log.ErrorContext(ctx, "update failed", "error", err)
		return endSpan(span, err)
	}
	return nil
}

// Version returns "<mtime-unix-nano>-<size>" of the backing file, or "0-0"
// when it does not exist yet.
func (s *ItemStore) Version(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fi, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "0-0", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %w", itemdomain.ErrStorageUnavailable, s.path, err)
	}
	return fmt.Sprintf("%d-%d", fi.ModTime().UnixNano(), fi.Size()), nil
}

// Ping checks that the data directory is reachable.
func (s *ItemStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", itemdomain.ErrStorageUnavailable, dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", itemdomain.ErrStorageUnavailable, dir)
	}
	return nil
}

// read loads and decodes the file. The caller must hold s.mu.
// A missing file is reported as the raw fs.ErrNotExist error.
func (s *ItemStore) read() ([]*models.Item, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", itemdomain.ErrStorageUnavailable, s.path, err)
	}
	return decode(raw)
}

// write encodes items and replaces the file. The caller must hold s.mu.
func (s *ItemStore) write(items []*models.Item) error {
	data, err := encode(items)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %w", itemdomain.ErrStorageUnavailable, err)
	}

	if !s.atomic {
		if err := os.WriteFile(s.path, data, 0o644); err != nil {
			return fmt.Errorf("%w: write %s: %w", itemdomain.ErrStorageUnavailable, s.path, err)
		}
		return nil
	}

	f, err := atomicfile.New(s.path)
	if err != nil {
		return fmt.Errorf("%w: open temp file: %w", itemdomain.ErrStorageUnavailable, err)
	}
	defer f.RemoveIfNotClosed()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: write %s: %w", itemdomain.ErrStorageUnavailable, s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: commit %s: %w", itemdomain.ErrStorageUnavailable, s.path, err)
	}
	return nil
}

// decode fails only when raw is not a JSON array. Elements are decoded
// leniently by decodeElement.
func decode(raw []byte) ([]*models.Item, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: data file does not contain a JSON array", itemdomain.ErrCorruptData)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrCorruptData, err)
	}

	items := make([]*models.Item, 0, len(elems))
	for _, el := range elems {
		items = append(items, decodeElement(el))
	}
	return items, nil
}

func encode(items []*models.Item) ([]byte, error) {
	elems := make([]json.RawMessage, 0, len(items))
	for i, it := range items {
		if it == nil {
			continue
		}
		el, err := encodeElement(it)
		if err != nil {
			return nil, fmt.Errorf("encode element %d: %w", i, err)
		}
		elems = append(elems, el)
	}
	data, err := json.MarshalIndent(elems, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return data, nil
}

func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
