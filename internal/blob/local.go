package blob

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// LocalStore keeps uploads in BadgerDB and serves them over the site's
// own /media/ path. It exists for self-hosted and development setups
// where no S3 bucket is available.
//
// Each upload is a key pair: meta:<key> holds the content type,
// data:<key> holds the bytes.
type LocalStore struct {
	db            *badger.DB
	publicBaseURL string
}

func OpenLocalStore(path, publicBaseURL string) (*LocalStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Silence default logger
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return newLocalStore(db, publicBaseURL), nil
}

// OpenInMemoryLocalStore backs the store with Badger's in-memory mode so
// tests never touch disk.
func OpenInMemoryLocalStore(publicBaseURL string) (*LocalStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return newLocalStore(db, publicBaseURL), nil
}

func newLocalStore(db *badger.DB, publicBaseURL string) *LocalStore {
	return &LocalStore{db: db, publicBaseURL: strings.TrimSuffix(publicBaseURL, "/")}
}

func (s *LocalStore) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *LocalStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte("meta:"+key), []byte(contentType)); err != nil {
			return err
		}
		return txn.Set([]byte("data:"+key), data)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return s.publicBaseURL + "/media/" + key, nil
}

// Get fetches a stored asset. Used by the /media/ handler.
func (s *LocalStore) Get(key string) ([]byte, string, error) {
	var data []byte
	var contentType string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("data:" + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		meta, err := txn.Get([]byte("meta:" + key))
		if err != nil {
			return err
		}
		return meta.Value(func(val []byte) error {
			contentType = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

// ServeHTTP makes the store mountable under /media/.
func (s *LocalStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/media/")
	data, contentType, err := s.Get(key)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Write(data)
}
