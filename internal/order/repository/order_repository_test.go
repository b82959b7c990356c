package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/domain"
	apperrors "orderdesk/internal/errors"
	"orderdesk/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db, StoreOptions{IDLength: 11, MaxIDAttempts: 3})

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
	assert.Equal(t, 11, repo.idLength)
	assert.Equal(t, 3, repo.maxAttempts)
}

func TestMySQLOrderRepository_InvalidIDRejectedBeforeQuery(t *testing.T) {
	repo := NewMySQLOrderRepository(&sql.DB{}, StoreOptions{TTL: time.Hour})

	_, err := repo.Get(context.Background(), "NOT-AN-ID")

	assert.Equal(t, apperrors.CodeInvalidID, apperrors.CodeOf(err))
}

func TestMySQLOrderRepository_CreateRandomnessFailure(t *testing.T) {
	repo := NewMySQLOrderRepository(&sql.DB{}, StoreOptions{})
	repo.WithIDGenerator(func(int) (string, error) { return "", errors.New("entropy unavailable") })

	_, err := repo.Create(context.Background(), &domain.Order{State: domain.StateNew})

	assert.Equal(t, apperrors.CodeInternal, apperrors.CodeOf(err))
}

// Integration Tests

func setupMySQLRepo(t *testing.T) (*MySQLOrderRepository, *sql.DB, *testClock) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	clock := &testClock{now: baseTime}
	repo := NewMySQLOrderRepository(db, StoreOptions{}).WithClock(clock.Now)
	return repo, db, clock
}

func TestMySQLOrderRepository_CreateAndGet(t *testing.T) {
	repo, _, _ := setupMySQLRepo(t)

	id, err := repo.Create(context.Background(), sampleOrder())
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)

	want := sampleOrder()
	want.ID = id
	want.CreatedAt = baseTime
	want.LastModifiedAt = baseTime
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stored order mismatch (-want +got):\n%s", diff)
	}
}

func TestMySQLOrderRepository_DuplicateIDRetried(t *testing.T) {
	repo, _, _ := setupMySQLRepo(t)
	repo.WithIDGenerator(sequence("dddddddddd", "dddddddddd", "eeeeeeeeee"))

	first, err := repo.Create(context.Background(), sampleOrder())
	require.NoError(t, err)
	second, err := repo.Create(context.Background(), sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, "dddddddddd", first)
	assert.Equal(t, "eeeeeeeeee", second)
}

func TestMySQLOrderRepository_CreateExhaustsAttempts(t *testing.T) {
	repo, _, _ := setupMySQLRepo(t)
	repo.WithIDGenerator(sequence("ffffffffff"))
	_, err := repo.Create(context.Background(), sampleOrder())
	require.NoError(t, err)

	repo.WithIDGenerator(func(int) (string, error) { return "ffffffffff", nil })
	_, err = repo.Create(context.Background(), sampleOrder())

	assert.Equal(t, apperrors.CodeIDAllocationExhausted, apperrors.CodeOf(err))
}

func TestMySQLOrderRepository_GetNotFound(t *testing.T) {
	repo, _, _ := setupMySQLRepo(t)

	_, err := repo.Get(context.Background(), "zzzzzzzzzz")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMySQLOrderRepository_UpdateBumpsVersion(t *testing.T) {
	repo, db, clock := setupMySQLRepo(t)
	id, err := repo.Create(context.Background(), sampleOrder())
	require.NoError(t, err)

	clock.Advance(time.Minute)
	updated, err := repo.Update(context.Background(), id, func(o *domain.Order) error {
		return o.Apply(domain.EventWebConfirmed)
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateConfirmed, updated.State)

	var (
		status  string
		version int
	)
	require.NoError(t, db.QueryRow(`SELECT status, version FROM Orders WHERE id = ?`, id).Scan(&status, &version))
	assert.Equal(t, "confirmed", status)
	assert.Equal(t, 2, version)
}

func TestMySQLOrderRepository_ConcurrentUpdateConflicts(t *testing.T) {
	repo, _, _ := setupMySQLRepo(t)
	id, err := repo.Create(context.Background(), sampleOrder())
	require.NoError(t, err)

	// The first mutator waits until the second writer has committed.
	var wg sync.WaitGroup
	inside := make(chan struct{})
	release := make(chan struct{})
	var firstErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = repo.Update(context.Background(), id, func(o *domain.Order) error {
			close(inside)
			<-release
			return o.Apply(domain.EventCancelled)
		})
	}()

	<-inside
	_, err = repo.Update(context.Background(), id, func(o *domain.Order) error {
		return o.Apply(domain.EventWebConfirmed)
	})
	require.NoError(t, err)
	close(release)
	wg.Wait()

	ce, ok := apperrors.IsConflictError(firstErr)
	require.True(t, ok, "got %v", firstErr)
	assert.Equal(t, apperrors.CodeConflict, ce.Code)

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StateConfirmed, got.State)
}

func TestMySQLOrderRepository_Sweep(t *testing.T) {
	repo, _, clock := setupMySQLRepo(t)

	stale, err := repo.Create(context.Background(), sampleOrder())
	require.NoError(t, err)
	clock.Advance(2 * time.Second)
	fresh, err := repo.Create(context.Background(), sampleOrder())
	require.NoError(t, err)

	clock.now = baseTime.Add(3601 * time.Second)
	removed, err := repo.Sweep(context.Background(), 3600*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.Get(context.Background(), stale)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	_, err = repo.Get(context.Background(), fresh)
	assert.NoError(t, err)
}
