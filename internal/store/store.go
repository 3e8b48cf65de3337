// Package store implements the generic document layer over a blob
// backend: collection-agnostic CRUD, listing, filtering, and text
// search. It has no knowledge of domain semantics.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"voyago/internal/blobstore"
	storeerrors "voyago/internal/store/errors"
	"voyago/pkg/logger"
)

// Well-known collection names used across the application.
const (
	CollectionUsers          = "users"
	CollectionTrips          = "trips"
	CollectionBookings       = "bookings"
	CollectionAccommodations = "accommodations"
	CollectionReviews        = "reviews"
	CollectionPayments       = "payments"
)

type ListOptions struct {
	Prefix string
	Limit  int
}

type Options struct {
	// Collections declares the buckets the store may touch. Operations
	// against anything else fail with ErrUnknownCollection.
	Collections []string
	// ListLimit caps a single listing when the caller does not set one.
	ListLimit int
}

// Store is the document facade over a blob backend. It is always an
// injected dependency; tests substitute an in-memory backend.
type Store struct {
	backend     blobstore.Backend
	collections map[string]struct{}
	listLimit   int
	log         *logger.Logger
}

func New(backend blobstore.Backend, log *logger.Logger, opts Options) *Store {
	if opts.ListLimit <= 0 {
		opts.ListLimit = 1000
	}
	collections := make(map[string]struct{}, len(opts.Collections))
	for _, name := range opts.Collections {
		collections[name] = struct{}{}
	}
	return &Store{
		backend:     backend,
		collections: collections,
		listLimit:   opts.ListLimit,
		log:         log,
	}
}

// DefaultCollections returns every collection the application uses.
func DefaultCollections() []string {
	return []string{
		CollectionUsers,
		CollectionTrips,
		CollectionBookings,
		CollectionAccommodations,
		CollectionReviews,
		CollectionPayments,
	}
}

// NewID returns a fresh document identifier.
func (s *Store) NewID() string {
	return uuid.NewString()
}

func (s *Store) checkCollection(collection string) error {
	if _, ok := s.collections[collection]; !ok {
		return fmt.Errorf("%w: %s", storeerrors.ErrUnknownCollection, collection)
	}
	return nil
}

// Create stamps the meta fields and writes unconditionally: an existing
// document under the same id is overwritten, last write wins.
func (s *Store) Create(ctx context.Context, collection, id string, data Document) (Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}
	if id == "" {
		id = s.NewID()
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	doc := data.clone()
	doc[FieldID] = id
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now
	doc[FieldVersion] = int64(1)

	if err := s.write(ctx, collection, id, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FindByID returns the document and true, or nil and false when the id
// does not exist. Absence is not an error; transport failures are.
func (s *Store) FindByID(ctx context.Context, collection, id string) (Document, bool, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, false, err
	}

	raw, err := s.backend.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, blobstore.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return doc, true, nil
}

// FindAll lists up to the limit of keys under the prefix and fetches
// each. A document that fails to fetch or decode is logged and skipped;
// partial results are an accepted, documented outcome.
func (s *Store) FindAll(ctx context.Context, collection string, opts ListOptions) ([]Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.listLimit
	}

	keys, err := s.backend.List(ctx, collection, blobstore.ListOptions{Prefix: opts.Prefix, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(keys))
	for _, key := range keys {
		raw, err := s.backend.Get(ctx, collection, key)
		if err != nil {
			s.log.Warn("Skipping unreadable document",
				"collection", collection,
				"key", key,
				"error", err,
			)
			continue
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			s.log.Warn("Skipping undecodable document",
				"collection", collection,
				"key", key,
				"error", err,
			)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindByField scans the listed page and keeps documents whose field
// equals value. An O(n) scan, not an indexed lookup; uniqueness is never
// assumed, callers wanting "the" match take the first themselves.
func (s *Store) FindByField(ctx context.Context, collection, field string, value any, opts ListOptions) ([]Document, error) {
	docs, err := s.FindAll(ctx, collection, opts)
	if err != nil {
		return nil, err
	}

	matched := make([]Document, 0)
	for _, doc := range docs {
		if fieldValue, ok := doc[field]; ok && valuesEqual(fieldValue, value) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

// Update shallow-merges the patch over the stored document, refreshes
// updatedAt, bumps the version, and writes back. Last write wins: a
// concurrent updater's merge can be silently overwritten. Callers that
// cannot tolerate that use UpdateWithVersion.
func (s *Store) Update(ctx context.Context, collection, id string, patch Document) (Document, error) {
	return s.update(ctx, collection, id, patch, nil)
}

// UpdateWithVersion is Update gated on the version the caller read:
// when the stored version differs the write is rejected with
// ErrVersionConflict and the caller re-reads and retries.
func (s *Store) UpdateWithVersion(ctx context.Context, collection, id string, patch Document, expected int64) (Document, error) {
	return s.update(ctx, collection, id, patch, &expected)
}

func (s *Store) update(ctx context.Context, collection, id string, patch Document, expected *int64) (Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	existing, found, err := s.FindByID(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s/%s", storeerrors.ErrNotFound, collection, id)
	}
	if expected != nil && existing.Version() != *expected {
		return nil, fmt.Errorf("%w: %s/%s expected version %d, stored %d",
			storeerrors.ErrVersionConflict, collection, id, *expected, existing.Version())
	}

	merged := existing.clone()
	for key, value := range patch {
		switch key {
		case FieldID, FieldCreatedAt, FieldUpdatedAt, FieldVersion:
			// Store-managed fields cannot be patched.
			continue
		}
		merged[key] = value
	}
	merged[FieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339Nano)
	merged[FieldVersion] = existing.Version() + 1

	if err := s.write(ctx, collection, id, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete removes the document and returns its last snapshot.
func (s *Store) Delete(ctx context.Context, collection, id string) (Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	doc, found, err := s.FindByID(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s/%s", storeerrors.ErrNotFound, collection, id)
	}

	if err := s.backend.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, blobstore.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", storeerrors.ErrNotFound, collection, id)
		}
		return nil, fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// DeleteMany removes every document matching the equality-AND filter
// and returns how many were deleted. Not atomic: a failure partway
// leaves the deletions already applied in place.
func (s *Store) DeleteMany(ctx context.Context, collection string, filter Document) (int, error) {
	docs, err := s.FindAll(ctx, collection, ListOptions{})
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, doc := range docs {
		if !matchesFilter(doc, filter) {
			continue
		}
		if _, err := s.Delete(ctx, collection, doc.ID()); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func matchesFilter(doc Document, filter Document) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// Count walks a full listing; there is no cheap count path.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	docs, err := s.FindAll(ctx, collection, ListOptions{})
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (s *Store) Exists(ctx context.Context, collection, id string) (bool, error) {
	_, found, err := s.FindByID(ctx, collection, id)
	return found, err
}

// Search matches the term case-insensitively as a substring. With no
// fields named, every string-valued field of every document is scanned.
// A linear scan; a production deployment would back this interface with
// an index.
func (s *Store) Search(ctx context.Context, collection, term string, fields []string) ([]Document, error) {
	docs, err := s.FindAll(ctx, collection, ListOptions{})
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	matched := make([]Document, 0)
	for _, doc := range docs {
		if documentMatches(doc, needle, fields) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

func documentMatches(doc Document, needle string, fields []string) bool {
	if len(fields) == 0 {
		for _, value := range doc {
			if text, ok := value.(string); ok && strings.Contains(strings.ToLower(text), needle) {
				return true
			}
		}
		return false
	}
	for _, field := range fields {
		if text, ok := doc[field].(string); ok && strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}
	return false
}

func (s *Store) write(ctx context.Context, collection, id string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}
	if err := s.backend.Set(ctx, collection, id, raw); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return nil
}
