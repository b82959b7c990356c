package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"orderdesk/internal/domain"
	apperrors "orderdesk/internal/errors"
)

const orderFileExt = ".json"

type StoreOptions struct {
	TTL           time.Duration
	IDLength      int
	MaxIDAttempts int
}

// FileOrderRepository keeps one indented JSON document per order in a single
// directory. Expired files are swept lazily before every operation.
type FileOrderRepository struct {
	dir         string
	ttl         time.Duration
	idLength    int
	maxAttempts int
	newID       IDGenerator
	now         func() time.Time
}

func NewFileOrderRepository(dir string, opts StoreOptions) (*FileOrderRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating orders directory: %w", err)
	}

	maxAttempts := opts.MaxIDAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxIDAttempts
	}

	return &FileOrderRepository{
		dir:         dir,
		ttl:         opts.TTL,
		idLength:    clampIDLength(opts.IDLength),
		maxAttempts: maxAttempts,
		newID:       GenerateOrderID,
		now:         time.Now,
	}, nil
}

func (r *FileOrderRepository) WithIDGenerator(gen IDGenerator) *FileOrderRepository {
	r.newID = gen
	return r
}

func (r *FileOrderRepository) WithClock(now func() time.Time) *FileOrderRepository {
	r.now = now
	return r
}

func (r *FileOrderRepository) Create(ctx context.Context, order *domain.Order) (string, error) {
	if _, err := r.Sweep(ctx, r.ttl); err != nil {
		return "", err
	}

	now := r.now()
	order.CreatedAt = now
	order.LastModifiedAt = now

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		id, err := r.newID(r.idLength)
		if err != nil {
			return "", apperrors.NewInternalError(apperrors.CodeInternal, "generating order id", err)
		}

		path := r.path(id)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", apperrors.StorageUnavailable("checking order id", err)
		}

		order.ID = id
		data, err := encodeOrder(order)
		if err != nil {
			return "", apperrors.StorageUnavailable("encoding order", err)
		}

		err = r.writeExclusive(path, data, now)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", apperrors.StorageUnavailable("writing order", err)
		}

		return id, nil
	}

	order.ID = ""
	return "", apperrors.NewInternalError(
		apperrors.CodeIDAllocationExhausted,
		fmt.Sprintf("could not allocate a free order id after %d attempts", r.maxAttempts),
		nil,
	)
}

func (r *FileOrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if _, err := r.Sweep(ctx, r.ttl); err != nil {
		return nil, err
	}
	return r.load(id)
}

func (r *FileOrderRepository) Update(ctx context.Context, id string, mutate func(*domain.Order) error) (*domain.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if _, err := r.Sweep(ctx, r.ttl); err != nil {
		return nil, err
	}

	order, err := r.load(id)
	if err != nil {
		return nil, err
	}

	if err := mutate(order); err != nil {
		return nil, err
	}

	now := r.now()
	order.ID = id
	order.LastModifiedAt = now

	data, err := encodeOrder(order)
	if err != nil {
		return nil, apperrors.StorageUnavailable("encoding order", err)
	}
	if err := r.writeReplace(r.path(id), data, now); err != nil {
		return nil, apperrors.StorageUnavailable("writing order", err)
	}

	return order, nil
}

// Sweep deletes order files not modified within ttl. A non-positive ttl keeps
// everything. Files that vanish or cannot be inspected are skipped.
func (r *FileOrderRepository) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return 0, apperrors.StorageUnavailable("listing orders", err)
	}

	now := r.now()
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), orderFileExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= ttl {
			continue
		}
		if err := os.Remove(filepath.Join(r.dir, entry.Name())); err == nil {
			removed++
		}
	}

	return removed, nil
}

func (r *FileOrderRepository) load(id string) (*domain.Order, error) {
	data, err := os.ReadFile(r.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, apperrors.StorageUnavailable("reading order", err)
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, apperrors.StorageUnavailable("decoding order", err)
	}

	return &order, nil
}

func (r *FileOrderRepository) path(id string) string {
	return filepath.Join(r.dir, id+orderFileExt)
}

// writeExclusive publishes data under path only if nothing is there yet. The
// content is written to a temp file first and hard-linked into place, so a
// reader never sees a partial order and an existing one is never replaced.
func (r *FileOrderRepository) writeExclusive(path string, data []byte, modTime time.Time) error {
	tmp, err := r.writeTemp(path, data, modTime)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	return os.Link(tmp, path)
}

func (r *FileOrderRepository) writeReplace(path string, data []byte, modTime time.Time) error {
	tmp, err := r.writeTemp(path, data, modTime)
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (r *FileOrderRepository) writeTemp(path string, data []byte, modTime time.Time) (string, error) {
	f, err := os.CreateTemp(r.dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	name := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	if err := os.Chtimes(name, modTime, modTime); err != nil {
		os.Remove(name)
		return "", err
	}

	return name, nil
}

func encodeOrder(order *domain.Order) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(order); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func checkID(id string) error {
	if !domain.ValidOrderID(id) {
		return apperrors.NewValidationError(apperrors.CodeInvalidID, "invalid order id", apperrors.ValidationDetail{
			Field:   "order_id",
			Message: "order id must be 8 to 12 lowercase letters or digits",
		})
	}
	return nil
}
