package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"orderdesk/internal/domain"
	apperrors "orderdesk/internal/errors"
)

const mysqlDuplicateEntry = 1062

// MySQLOrderRepository stores each order as a JSON payload row. Updates are
// guarded by a version column so a concurrent writer is detected instead of
// overwritten.
type MySQLOrderRepository struct {
	db          *sql.DB
	ttl         time.Duration
	idLength    int
	maxAttempts int
	newID       IDGenerator
	now         func() time.Time
}

func NewMySQLOrderRepository(db *sql.DB, opts StoreOptions) *MySQLOrderRepository {
	maxAttempts := opts.MaxIDAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxIDAttempts
	}

	return &MySQLOrderRepository{
		db:          db,
		ttl:         opts.TTL,
		idLength:    clampIDLength(opts.IDLength),
		maxAttempts: maxAttempts,
		newID:       GenerateOrderID,
		now:         time.Now,
	}
}

func (r *MySQLOrderRepository) WithIDGenerator(gen IDGenerator) *MySQLOrderRepository {
	r.newID = gen
	return r
}

func (r *MySQLOrderRepository) WithClock(now func() time.Time) *MySQLOrderRepository {
	r.now = now
	return r
}

func (r *MySQLOrderRepository) Create(ctx context.Context, order *domain.Order) (string, error) {
	if _, err := r.Sweep(ctx, r.ttl); err != nil {
		return "", err
	}

	now := r.now().UTC()
	order.CreatedAt = now
	order.LastModifiedAt = now

	query := `
		INSERT INTO Orders (id, status, payload, version, createdAt, updatedAt)
		VALUES (?, ?, ?, 1, ?, ?)
	`

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		id, err := r.newID(r.idLength)
		if err != nil {
			return "", apperrors.NewInternalError(apperrors.CodeInternal, "generating order id", err)
		}

		order.ID = id
		payload, err := json.Marshal(order)
		if err != nil {
			return "", apperrors.StorageUnavailable("encoding order", err)
		}

		_, err = r.db.ExecContext(ctx, query, id, string(order.State), payload, now, now)
		if isDuplicateEntry(err) {
			continue
		}
		if err != nil {
			return "", apperrors.StorageUnavailable("inserting order", err)
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

func (r *MySQLOrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if _, err := r.Sweep(ctx, r.ttl); err != nil {
		return nil, err
	}

	order, _, err := r.load(ctx, id)
	return order, err
}

func (r *MySQLOrderRepository) Update(ctx context.Context, id string, mutate func(*domain.Order) error) (*domain.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if _, err := r.Sweep(ctx, r.ttl); err != nil {
		return nil, err
	}

	order, version, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(order); err != nil {
		return nil, err
	}

	now := r.now().UTC()
	order.ID = id
	order.LastModifiedAt = now

	payload, err := json.Marshal(order)
	if err != nil {
		return nil, apperrors.StorageUnavailable("encoding order", err)
	}

	query := `
		UPDATE Orders
		SET status = ?, payload = ?, version = version + 1, updatedAt = ?
		WHERE id = ? AND version = ?
	`

	result, err := r.db.ExecContext(ctx, query, string(order.State), payload, now, id, version)
	if err != nil {
		return nil, apperrors.StorageUnavailable("updating order", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.StorageUnavailable("getting rows affected", err)
	}

	if rowsAffected == 0 {
		return nil, apperrors.NewConflictError(
			apperrors.CodeConflict,
			fmt.Sprintf("order %s was modified concurrently", id),
		)
	}

	return order, nil
}

func (r *MySQLOrderRepository) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}

	cutoff := r.now().UTC().Add(-ttl)
	result, err := r.db.ExecContext(ctx, `DELETE FROM Orders WHERE updatedAt < ?`, cutoff)
	if err != nil {
		return 0, apperrors.StorageUnavailable("sweeping orders", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.StorageUnavailable("getting rows affected", err)
	}

	return int(removed), nil
}

func (r *MySQLOrderRepository) load(ctx context.Context, id string) (*domain.Order, uint, error) {
	query := `SELECT payload, version FROM Orders WHERE id = ?`

	var (
		payload []byte
		version uint
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&payload, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, 0, apperrors.StorageUnavailable("querying order", err)
	}

	var order domain.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, 0, apperrors.StorageUnavailable("decoding order", err)
	}

	return &order, version, nil
}

func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
