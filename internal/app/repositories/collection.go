package repositories

import (
	"context"
	"errors"
	"maps"
	"reflect"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/docstore"
	"github.com/yigit/eduportal/internal/pkg/helpers"
)

// Reserved record fields
const (
	fieldID        = "id"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
)

// Collection is a set of records of type T stored as the children of one
// store path, keyed by generated push keys.
type Collection[T any] struct {
	store  docstore.Store
	path   string
	logger zerolog.Logger
	// omit lists derived fields that are never written
	omit []string
	now  func() time.Time
}

// NewCollection creates a collection rooted at path
func NewCollection[T any](store docstore.Store, path string, logger zerolog.Logger) *Collection[T] {
	return &Collection[T]{
		store:  store,
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Path returns the store path of the collection
func (c *Collection[T]) Path() string {
	return c.path
}

func (c *Collection[T]) itemPath(id string) (string, error) {
	if err := docstore.ValidateKey(id); err != nil {
		return "", apperrors.NewResourceNotFoundError("Record not found")
	}
	return docstore.Join(c.path, id), nil
}

// decodeChildren turns a subtree into records ordered by key. Every record
// gets its key as id and, when extra is set, the extra fields. Records that
// do not decode into T are logged and left out.
func decodeChildren[T any](tree any, extra map[string]any, logger zerolog.Logger, path string) []*T {
	children := docstore.Children(tree)
	keys := make([]string, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]*T, 0, len(keys))
	for _, key := range keys {
		fields, ok := children[key].(map[string]any)
		if !ok {
			continue
		}
		item, err := decodeRecord[T](key, fields, extra)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Str("key", key).Msg("Skipping undecodable record")
			continue
		}
		items = append(items, item)
	}
	return items
}

func decodeRecord[T any](key string, fields map[string]any, extra map[string]any) (*T, error) {
	record := make(map[string]any, len(fields)+len(extra)+1)
	for k, v := range fields {
		record[k] = v
	}
	for k, v := range extra {
		record[k] = v
	}
	record[fieldID] = key

	var item T
	if err := docstore.Decode(record, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// List fetches the whole collection
func (c *Collection[T]) List(ctx context.Context) ([]*T, error) {
	tree, err := c.store.Get(ctx, c.path)
	if err != nil {
		c.logger.Error().Err(err).Str("path", c.path).Msg("Error fetching collection")
		return nil, err
	}
	return decodeChildren[T](tree, nil, c.logger, c.path), nil
}

// Get fetches one record
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	p, err := c.itemPath(id)
	if err != nil {
		return nil, err
	}
	raw, err := c.store.Get(ctx, p)
	if err != nil {
		c.logger.Error().Err(err).Str("path", p).Msg("Error fetching record")
		return nil, err
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("Record not found")
	}
	return decodeRecord[T](id, fields, nil)
}

func (c *Collection[T]) encode(item *T) (map[string]any, error) {
	fields, err := docstore.Encode(item)
	if err != nil {
		return nil, err
	}
	for _, k := range c.omit {
		delete(fields, k)
	}
	return fields, nil
}

// Create stores item under a new push key and returns the stored record
func (c *Collection[T]) Create(ctx context.Context, item *T) (*T, error) {
	key, err := c.store.Push(ctx, c.path)
	if err != nil {
		c.logger.Error().Err(err).Str("path", c.path).Msg("Error generating key")
		return nil, err
	}
	fields, err := c.encode(item)
	if err != nil {
		return nil, err
	}

	ts := helpers.Timestamp(c.now())
	fields[fieldID] = key
	if s, _ := fields[fieldCreatedAt].(string); s == "" {
		fields[fieldCreatedAt] = ts
	}
	fields[fieldUpdatedAt] = ts

	p := docstore.Join(c.path, key)
	if err := c.store.Update(ctx, p, fields); err != nil {
		c.logger.Error().Err(err).Str("path", p).Msg("Error creating record")
		return nil, err
	}
	return decodeRecord[T](key, fields, nil)
}

// Update merge-writes the fields of item that differ from the stored record.
// Fields item leaves as they were keep their stored value and type.
func (c *Collection[T]) Update(ctx context.Context, id string, item *T) (*T, error) {
	existing, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before, err := c.encode(existing)
	if err != nil {
		return nil, err
	}
	after, err := c.encode(item)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(after))
	for k, v := range after {
		if !reflect.DeepEqual(before[k], v) {
			fields[k] = v
		}
	}
	delete(fields, fieldID)
	delete(fields, fieldCreatedAt)
	fields[fieldUpdatedAt] = helpers.Timestamp(c.now())

	if err := c.Merge(ctx, id, fields); err != nil {
		return nil, err
	}
	return c.Get(ctx, id)
}

// Merge writes the given fields of a record, leaving the others untouched.
// A nil value removes that field.
func (c *Collection[T]) Merge(ctx context.Context, id string, fields map[string]any) error {
	p, err := c.itemPath(id)
	if err != nil {
		return err
	}
	if err := c.store.Update(ctx, p, fields); err != nil {
		c.logger.Error().Err(err).Str("path", p).Msg("Error updating record")
		return err
	}
	return nil
}

// Delete removes a record
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if _, err := c.Get(ctx, id); err != nil {
		return err
	}
	p, _ := c.itemPath(id)
	if err := c.store.Remove(ctx, p); err != nil {
		c.logger.Error().Err(err).Str("path", p).Msg("Error deleting record")
		return err
	}
	return nil
}

// MutateFn inspects a record and returns the fields to change
type MutateFn[T any] func(item *T) (map[string]any, error)

// Mutate atomically applies fn to a record. Only the fields fn returns and
// updatedAt are written; every other stored field is kept as it is. fn
// returning an error aborts without writing and the error is returned as is.
func (c *Collection[T]) Mutate(ctx context.Context, id string, fn MutateFn[T]) (*T, error) {
	p, err := c.itemPath(id)
	if err != nil {
		return nil, err
	}

	var result *T
	var fnErr error
	_, err = c.store.Transaction(ctx, p, func(current any) (any, error) {
		fields, ok := current.(map[string]any)
		if !ok {
			fnErr = apperrors.NewResourceNotFoundError("Record not found")
			return nil, docstore.ErrTransactionAborted
		}
		item, err := decodeRecord[T](id, fields, nil)
		if err != nil {
			return nil, err
		}
		changes, err := fn(item)
		if err != nil {
			fnErr = err
			return nil, docstore.ErrTransactionAborted
		}

		next := maps.Clone(fields)
		for k, v := range changes {
			if k == fieldID || k == fieldCreatedAt {
				continue
			}
			nv, err := docstore.Normalize(v)
			if err != nil {
				return nil, err
			}
			if nv == nil {
				delete(next, k)
				continue
			}
			next[k] = nv
		}
		next[fieldUpdatedAt] = helpers.Timestamp(c.now())

		result, err = decodeRecord[T](id, next, nil)
		if err != nil {
			return nil, err
		}
		return next, nil
	})
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		if !errors.Is(err, docstore.ErrTransactionAborted) {
			c.logger.Error().Err(err).Str("path", p).Msg("Error in record transaction")
		}
		return nil, err
	}
	return result, nil
}

// Grouped is a collection of collections: records live two levels below
// path, under a grouping key such as a reference id or a semester.
type Grouped[T any] struct {
	store      docstore.Store
	path       string
	groupField string
	logger     zerolog.Logger
}

// NewGrouped creates a grouped collection. groupField names the record
// field that receives the grouping key when listing.
func NewGrouped[T any](store docstore.Store, path, groupField string, logger zerolog.Logger) *Grouped[T] {
	return &Grouped[T]{store: store, path: path, groupField: groupField, logger: logger}
}

// In returns the collection of one group
func (g *Grouped[T]) In(group string) (*Collection[T], error) {
	if err := docstore.ValidateKey(group); err != nil {
		return nil, apperrors.NewValidationError("Invalid group key")
	}
	c := NewCollection[T](g.store, docstore.Join(g.path, group), g.logger)
	if g.groupField != "" {
		c.omit = []string{g.groupField}
	}
	return c, nil
}

// Groups fetches every group with its records
func (g *Grouped[T]) Groups(ctx context.Context) (map[string][]*T, error) {
	tree, err := g.store.Get(ctx, g.path)
	if err != nil {
		g.logger.Error().Err(err).Str("path", g.path).Msg("Error fetching grouped collection")
		return nil, err
	}
	out := make(map[string][]*T)
	for group, subtree := range docstore.Children(tree) {
		var extra map[string]any
		if g.groupField != "" {
			extra = map[string]any{g.groupField: group}
		}
		out[group] = decodeChildren[T](subtree, extra, g.logger, docstore.Join(g.path, group))
	}
	return out, nil
}

// ListAll flattens every group into one list ordered by group then key
func (g *Grouped[T]) ListAll(ctx context.Context) ([]*T, error) {
	groups, err := g.Groups(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]*T, 0)
	for _, name := range names {
		items = append(items, groups[name]...)
	}
	return items, nil
}

// Find locates a record by id across all groups
func (g *Grouped[T]) Find(ctx context.Context, id string) (string, *T, error) {
	groups, err := g.Groups(ctx)
	if err != nil {
		return "", nil, err
	}
	for group, items := range groups {
		for _, item := range items {
			if recordID(item) == id {
				return group, item, nil
			}
		}
	}
	return "", nil, apperrors.NewResourceNotFoundError("Record not found")
}

func recordID(item any) string {
	fields, err := docstore.Encode(item)
	if err != nil {
		return ""
	}
	id, _ := fields[fieldID].(string)
	return id
}
