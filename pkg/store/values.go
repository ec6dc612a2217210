package store

import (
	bolt "go.etcd.io/bbolt"
	. "src.rho.sh/pkg/store/storedefs"
)

const bucketValue = "value"

func init() {
	initDB["initialize value table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketValue))
		return err
	}
}

// Value gets the value saved under a key.
func (s *dbStore) Value(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketValue)).Get([]byte(key))
		if v == nil {
			return ErrNoValue
		}
		value = append([]byte(nil), v...)
		return nil
	})
	return value, err
}

// SetValue saves a value under a key, replacing any previous one.
func (s *dbStore) SetValue(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketValue)).Put([]byte(key), value)
	})
}

// DelValue deletes the value saved under a key. Deleting a missing key is not
// an error.
func (s *dbStore) DelValue(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketValue)).Delete([]byte(key))
	})
}

// Keys returns all the keys in byte order.
func (s *dbStore) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketValue)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}
