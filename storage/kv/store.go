// Package kvstore keeps the client preferences in a local bbolt file.
package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/edumanage/core/session"
	"github.com/trezcool/edumanage/core/user"
)

var preferencesBucket = []byte("Preferences")

const (
	currentUserKey = "currentUser"
	themeKey       = "theme"
)

type Store struct {
	db *bbolt.DB
}

var _ session.Store = (*Store)(nil)

// Open opens (or creates) the preferences file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating store directory")
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(preferencesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating buckets")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func save[T any](s *Store, bucket []byte, key string, value T) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

// get reports false when the key is absent.
func get[T any](s *Store, bucket []byte, key string) (T, bool, error) {
	var (
		out   T
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &out)
	})
	return out, found, err
}

func remove(s *Store, bucket []byte, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *Store) SaveUser(usr user.User) error {
	return save(s, preferencesBucket, currentUserKey, usr)
}

func (s *Store) LoadUser() (user.User, bool, error) {
	usr, ok, err := get[user.User](s, preferencesBucket, currentUserKey)
	return usr, ok, errors.Wrap(err, "decoding current user")
}

func (s *Store) ClearUser() error {
	return remove(s, preferencesBucket, currentUserKey)
}

func (s *Store) SaveTheme(t session.Theme) error {
	return save(s, preferencesBucket, themeKey, t)
}

func (s *Store) LoadTheme() (session.Theme, bool, error) {
	t, ok, err := get[session.Theme](s, preferencesBucket, themeKey)
	return t, ok, errors.Wrap(err, "decoding theme")
}
