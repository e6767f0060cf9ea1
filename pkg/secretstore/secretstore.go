package secretstore

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// Keys under which exchange credentials are stored.
const (
	KeyAPIKey    = "binance/api_key"
	KeyAPISecret = "binance/api_secret"
)

var ErrNotOpened = errors.New("secretstore: not opened")

// Store is a small Badger KV for exchange credentials. Encryption at rest is
// Badger's own (value log + key registry) when an encryption key is given.
type Store struct {
	db *badger.DB
}

type OpenOptions struct {
	Path          string
	EncryptionKey []byte // 16, 24 or 32 bytes; nil opens unencrypted
	ReadOnly      bool
	InMemory      bool // tests only; Path is ignored
}

func Open(opts OpenOptions) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if strings.TrimSpace(opts.Path) == "" {
			return nil, errors.New("secretstore: path is required")
		}
		bopts = badger.DefaultOptions(opts.Path).WithReadOnly(opts.ReadOnly)
	}
	bopts = bopts.WithLogger(nil)
	if len(opts.EncryptionKey) > 0 {
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(16 << 20)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrapf(err, "secretstore: open %s", opts.Path)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetString returns the value and whether key exists.
func (s *Store) GetString(key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, ErrNotOpened
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return "", false, errors.New("secretstore: key is empty")
	}
	var (
		out   string
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, errors.Wrapf(err, "secretstore: get %s", key)
	}
	return out, found, nil
}

func (s *Store) SetString(key, val string) error {
	if s == nil || s.db == nil {
		return ErrNotOpened
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return errors.New("secretstore: key is empty")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, []byte(val))
	})
}

// SaveCredentials stores both halves in one transaction.
func (s *Store) SaveCredentials(apiKey, apiSecret string) error {
	if s == nil || s.db == nil {
		return ErrNotOpened
	}
	if apiKey == "" || apiSecret == "" {
		return errors.New("secretstore: api key and secret are required")
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(KeyAPIKey), []byte(apiKey)); err != nil {
			return err
		}
		return txn.Set([]byte(KeyAPISecret), []byte(apiSecret))
	})
	return errors.Wrap(err, "secretstore: save credentials")
}

// LoadCredentials returns ok=false when either half is missing.
func (s *Store) LoadCredentials() (apiKey, apiSecret string, ok bool, err error) {
	apiKey, okKey, err := s.GetString(KeyAPIKey)
	if err != nil {
		return "", "", false, err
	}
	apiSecret, okSecret, err := s.GetString(KeyAPISecret)
	if err != nil {
		return "", "", false, err
	}
	if !okKey || !okSecret || apiKey == "" || apiSecret == "" {
		return "", "", false, nil
	}
	return apiKey, apiSecret, true, nil
}

// ParseKey accepts 32 bytes as hex (optionally 0x-prefixed) or base64.
// Empty input returns nil.
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x")); err == nil {
		if len(b) != 32 {
			return nil, errors.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != 32 {
			return nil, errors.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	return nil, errors.New("key must be base64(32 bytes) or hex(32 bytes)")
}
