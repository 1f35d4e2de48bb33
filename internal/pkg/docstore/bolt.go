package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var rootBucket = []byte("tree")

// BoltStore persists the tree in a bbolt file. Every map in the tree is a
// nested bucket and every leaf is a JSON encoded value inside its parent.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens (or creates) the bbolt file at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create root bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(_ context.Context, path string) (any, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	var out any
	err = s.db.View(func(tx *bbolt.Tx) error {
		out, err = readPath(tx.Bucket(rootBucket), segs)
		return err
	})
	return out, err
}

func (s *BoltStore) Set(_ context.Context, path string, value any) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	nv, err := Normalize(value)
	if err != nil {
		return err
	}
	if err := validateTree(nv); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return writePath(tx.Bucket(rootBucket), segs, nv)
	})
}

func (s *BoltStore) Update(_ context.Context, path string, fields map[string]any) error {
	base, err := SplitPath(path)
	if err != nil {
		return err
	}
	writes, err := expandUpdate(base, fields)
	if err != nil {
		return err
	}
	for _, v := range writes {
		if err := validateTree(v); err != nil {
			return err
		}
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(rootBucket)
		for p, v := range writes {
			segs, _ := SplitPath(p)
			if err := writePath(root, segs, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Push(_ context.Context, path string) (string, error) {
	if _, err := SplitPath(path); err != nil {
		return "", err
	}
	return NewPushKey()
}

func (s *BoltStore) Remove(ctx context.Context, path string) error {
	return s.Set(ctx, path, nil)
}

// Transaction runs inside a single read-write bolt transaction; bolt allows
// only one writer at a time, which makes the read-modify-write atomic.
func (s *BoltStore) Transaction(_ context.Context, path string, fn TransactionFn) (any, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	var result any
	err = s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(rootBucket)
		current, err := readPath(root, segs)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		nv, err := Normalize(next)
		if err != nil {
			return err
		}
		if err := validateTree(nv); err != nil {
			return err
		}
		result = nv
		return writePath(root, segs, nv)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func readPath(root *bbolt.Bucket, segs []string) (any, error) {
	if len(segs) == 0 {
		return readBucket(root)
	}
	parent := root
	for _, seg := range segs[:len(segs)-1] {
		parent = parent.Bucket([]byte(seg))
		if parent == nil {
			return nil, nil
		}
	}
	key := []byte(segs[len(segs)-1])
	if b := parent.Bucket(key); b != nil {
		return readBucket(b)
	}
	raw := parent.Get(key)
	if raw == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("corrupt leaf at %s: %w", canonical(segs), err)
	}
	return v, nil
}

func readBucket(b *bbolt.Bucket) (any, error) {
	out := map[string]any{}
	err := b.ForEach(func(k, raw []byte) error {
		if raw == nil {
			child, err := readBucket(b.Bucket(k))
			if err != nil {
				return err
			}
			if child != nil {
				out[string(k)] = child
			}
			return nil
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("corrupt leaf %s: %w", k, err)
		}
		out[string(k)] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func writePath(root *bbolt.Bucket, segs []string, v any) error {
	if len(segs) == 0 {
		if err := clearBucket(root); err != nil {
			return err
		}
		if m, ok := v.(map[string]any); ok {
			return fillBucket(root, m)
		}
		return nil
	}

	trail := []*bbolt.Bucket{root}
	parent := root
	for _, seg := range segs[:len(segs)-1] {
		key := []byte(seg)
		next := parent.Bucket(key)
		if next == nil {
			if v == nil {
				return nil
			}
			// a leaf in the way is replaced by the new subtree
			if parent.Get(key) != nil {
				if err := parent.Delete(key); err != nil {
					return err
				}
			}
			var err error
			next, err = parent.CreateBucket(key)
			if err != nil {
				return err
			}
		}
		parent = next
		trail = append(trail, parent)
	}

	key := []byte(segs[len(segs)-1])
	if parent.Bucket(key) != nil {
		if err := parent.DeleteBucket(key); err != nil {
			return err
		}
	} else if parent.Get(key) != nil {
		if err := parent.Delete(key); err != nil {
			return err
		}
	}

	switch t := v.(type) {
	case nil:
		return pruneEmpty(trail, segs)
	case map[string]any:
		b, err := parent.CreateBucket(key)
		if err != nil {
			return err
		}
		return fillBucket(b, t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return err
		}
		return parent.Put(key, raw)
	}
}

func fillBucket(b *bbolt.Bucket, m map[string]any) error {
	for k, v := range m {
		switch t := v.(type) {
		case map[string]any:
			child, err := b.CreateBucket([]byte(k))
			if err != nil {
				return err
			}
			if err := fillBucket(child, t); err != nil {
				return err
			}
		default:
			raw, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(k), raw); err != nil {
				return err
			}
		}
	}
	return nil
}

func clearBucket(b *bbolt.Bucket) error {
	var keys [][]byte
	err := b.ForEach(func(k, _ []byte) error {
		keys = append(keys, append([]byte(nil), k...))
		return nil
	})
	if err != nil {
		return err
	}
	for _, k := range keys {
		if b.Bucket(k) != nil {
			if err := b.DeleteBucket(k); err != nil {
				return err
			}
			continue
		}
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// pruneEmpty removes buckets emptied by a delete, walking up from the parent.
func pruneEmpty(trail []*bbolt.Bucket, segs []string) error {
	for i := len(trail) - 1; i >= 1; i-- {
		k, _ := trail[i].Cursor().First()
		if k != nil {
			return nil
		}
		if err := trail[i-1].DeleteBucket([]byte(segs[i-1])); err != nil {
			return err
		}
	}
	return nil
}
