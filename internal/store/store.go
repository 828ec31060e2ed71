package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/asaskevich/EventBus"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Collection names for the three persisted arrays.
const (
	CollectionProducts = "products"
	CollectionCart     = "cart"
	CollectionOrders   = "orders"
)

// bucketCollections holds one JSON-array value per collection name.
var bucketCollections = []byte("collections")

// emptyCollection is what absent collections deserialize to.
var emptyCollection = []byte("[]")

// Store is the device-local persistent collection store. Each named
// collection is a single JSON array value inside one bbolt file; every
// mutation rewrites a collection wholesale and notifies subscribers for
// it synchronously after the write commits.
//
// The store is constructed once per process and injected into its
// consumers; it is the only component allowed to touch the underlying
// file.
type Store struct {
	db     *bolt.DB
	bus    EventBus.Bus
	logger *zap.Logger
}

// Open opens (creating if needed) the store file at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCollections)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store bucket: %w", err)
	}

	return &Store{
		db:     db,
		bus:    EventBus.New(),
		logger: logger,
	}, nil
}

// Close closes the underlying file.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReadAll deserializes the named collection into out, which must be a
// pointer to a slice. An absent or corrupt value leaves out untouched,
// which for a fresh slice variable means the empty collection; corrupt
// data is logged but never surfaces as an error.
func (s *Store) ReadAll(collection string, out any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		decodeCollection(tx.Bucket(bucketCollections).Get([]byte(collection)), collection, out, s.logger)
		return nil
	})
}

// WriteAll serializes v and replaces the named collection, then notifies
// subscribers of that collection.
func (s *Store) WriteAll(collection string, v any) error {
	data, err := encodeCollection(collection, v)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCollections).Put([]byte(collection), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write collection %q: %w", collection, err)
	}

	s.notify(collection)
	return nil
}

// Batch runs fn against a staged transaction. Reads see committed data,
// writes are staged through the Tx and commit together or not at all.
// Subscribers of every written collection are notified once, after the
// commit succeeds.
func (s *Store) Batch(fn func(tx *Tx) error) error {
	var touched []string

	err := s.db.Update(func(btx *bolt.Tx) error {
		tx := &Tx{
			bucket: btx.Bucket(bucketCollections),
			logger: s.logger,
		}
		if err := fn(tx); err != nil {
			return err
		}
		touched = tx.touched
		return nil
	})
	if err != nil {
		return err
	}

	for _, collection := range touched {
		s.notify(collection)
	}
	return nil
}

// Subscribe registers handler to run synchronously after every committed
// write of the named collection.
func (s *Store) Subscribe(collection string, handler func()) error {
	return s.bus.Subscribe(topic(collection), handler)
}

// Unsubscribe removes a previously registered handler.
func (s *Store) Unsubscribe(collection string, handler func()) error {
	return s.bus.Unsubscribe(topic(collection), handler)
}

// Seed performs first-run initialization: products gets the seed catalog
// only when absent, cart and orders default to empty arrays.
func (s *Store) Seed(products any) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode seed catalog: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCollections)
		if b.Get([]byte(CollectionProducts)) == nil {
			if err := b.Put([]byte(CollectionProducts), data); err != nil {
				return err
			}
		}
		for _, name := range []string{CollectionCart, CollectionOrders} {
			if b.Get([]byte(name)) == nil {
				if err := b.Put([]byte(name), emptyCollection); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Reset restores products to the seed catalog and empties cart and
// orders. This is the only bulk teardown the store offers.
func (s *Store) Reset(products any) error {
	return s.Batch(func(tx *Tx) error {
		if err := tx.WriteAll(CollectionProducts, products); err != nil {
			return err
		}
		if err := tx.WriteAll(CollectionCart, []struct{}{}); err != nil {
			return err
		}
		return tx.WriteAll(CollectionOrders, []struct{}{})
	})
}

func (s *Store) notify(collection string) {
	s.bus.Publish(topic(collection))
}

func topic(collection string) string {
	return "collection:" + collection
}

// Tx exposes collection reads and staged writes inside a Batch.
type Tx struct {
	bucket  *bolt.Bucket
	logger  *zap.Logger
	touched []string
}

// ReadAll behaves like Store.ReadAll but sees writes already staged in
// this transaction.
func (t *Tx) ReadAll(collection string, out any) error {
	decodeCollection(t.bucket.Get([]byte(collection)), collection, out, t.logger)
	return nil
}

// WriteAll stages a wholesale replacement of the named collection.
func (t *Tx) WriteAll(collection string, v any) error {
	data, err := encodeCollection(collection, v)
	if err != nil {
		return err
	}
	if err := t.bucket.Put([]byte(collection), data); err != nil {
		return fmt.Errorf("failed to stage collection %q: %w", collection, err)
	}
	t.markTouched(collection)
	return nil
}

func (t *Tx) markTouched(collection string) {
	for _, name := range t.touched {
		if name == collection {
			return
		}
	}
	t.touched = append(t.touched, collection)
}

// encodeCollection marshals v, mapping a nil slice to the empty array so
// the persisted value is always a JSON array.
func encodeCollection(collection string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection %q: %w", collection, err)
	}
	if string(data) == "null" {
		data = emptyCollection
	}
	return data, nil
}

func decodeCollection(data []byte, collection string, out any, logger *zap.Logger) {
	if data == nil {
		return
	}
	if !json.Valid(data) {
		logger.Warn("Discarding corrupt collection data",
			zap.String("collection", collection),
		)
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Warn("Discarding corrupt collection data",
			zap.String("collection", collection),
			zap.Error(err),
		)
		// A partially decoded slice is worse than an empty one.
		if v := reflect.ValueOf(out); v.Kind() == reflect.Pointer {
			v.Elem().Set(reflect.Zero(v.Elem().Type()))
		}
	}
}
