//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/priorly/priorly-server/internal/model"
	repo "github.com/priorly/priorly-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "priorly_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/priorly_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func createUser(t *testing.T, ctx context.Context, ur *repo.UserRepository, email string) model.User {
	t.Helper()
	now := time.Now()
	u, err := ur.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ur := repo.NewUserRepository(conn)
	u := createUser(t, ctx, ur, "crud@example.com")

	// lookup is case-insensitive on the stored lowercased email
	byEmail, err := ur.GetByEmail(ctx, "CRUD@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = ur.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        "crud@example.com",
		PasswordHash: "x",
		Name:         "Other",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	require.ErrorIs(t, err, model.ErrDuplicateEmail)

	require.NoError(t, ur.UpdateName(ctx, u.ID, "Renamed User"))
	require.NoError(t, ur.UpdatePassword(ctx, u.ID, "$2a$10$newhash"))

	byID, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed User", byID.Name)
	require.Equal(t, "$2a$10$newhash", byID.PasswordHash)

	require.NoError(t, ur.Delete(ctx, u.ID))
	_, err = ur.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.ErrorIs(t, ur.Delete(ctx, u.ID), model.ErrNotFound)
}

func TestOTPRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	or := repo.NewOTPRepository(conn)
	now := time.Now()

	otp := model.OTP{
		Code:      123456,
		Email:     "otp@example.com",
		Operation: model.OTPOperationSignup,
		Name:      "Ann",
		IssuedAt:  now,
		ExpiresAt: now.Add(10 * time.Minute),
	}
	require.NoError(t, or.Create(ctx, otp))

	// the email is uniquely claimed
	err = or.Create(ctx, model.OTP{
		Code:      654321,
		Email:     "otp@example.com",
		Operation: model.OTPOperationSignup,
		IssuedAt:  now,
		ExpiresAt: now.Add(10 * time.Minute),
	})
	require.ErrorIs(t, err, model.ErrOTPConflict)

	// so is the code, across emails
	err = or.Create(ctx, model.OTP{
		Code:      123456,
		Email:     "other@example.com",
		Operation: model.OTPOperationSignup,
		IssuedAt:  now,
		ExpiresAt: now.Add(10 * time.Minute),
	})
	require.ErrorIs(t, err, model.ErrOTPConflict)

	// wrong operation does not consume
	_, err = or.ConsumeCode(ctx, 123456, "otp@example.com", model.OTPOperationForgotPassword, now)
	require.ErrorIs(t, err, model.ErrNotFound)

	got, err := or.ConsumeCode(ctx, 123456, "otp@example.com", model.OTPOperationSignup, now)
	require.NoError(t, err)
	require.Equal(t, "Ann", got.Name)

	// single use
	_, err = or.ConsumeCode(ctx, 123456, "otp@example.com", model.OTPOperationSignup, now)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestOTPRepository_ExpiredCodeDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	or := repo.NewOTPRepository(conn)
	now := time.Now()

	require.NoError(t, or.Create(ctx, model.OTP{
		Code:      222333,
		Email:     "expired@example.com",
		Operation: model.OTPOperationSignup,
		IssuedAt:  now.Add(-20 * time.Minute),
		ExpiresAt: now.Add(-10 * time.Minute),
	}))

	_, err = or.ConsumeCode(ctx, 222333, "expired@example.com", model.OTPOperationSignup, now)
	require.ErrorIs(t, err, model.ErrNotFound)

	deleted, err := or.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.GreaterOrEqual(t, deleted, int64(1))
}

func TestOTPRepository_ConcurrentConsumeSingleWinner(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	or := repo.NewOTPRepository(conn)
	now := time.Now()

	require.NoError(t, or.Create(ctx, model.OTP{
		Code:      333444,
		Email:     "race@example.com",
		Operation: model.OTPOperationSignup,
		IssuedAt:  now,
		ExpiresAt: now.Add(10 * time.Minute),
	}))

	const consumers = 16
	var winners atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := or.ConsumeCode(ctx, 333444, "race@example.com", model.OTPOperationSignup, time.Now()); err == nil {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), winners.Load())
}

func TestOTPRepository_ConcurrentCreateSingleLiveRow(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	or := repo.NewOTPRepository(conn)
	now := time.Now()

	const writers = 16
	var created atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(code int) {
			defer wg.Done()
			err := or.Create(ctx, model.OTP{
				Code:      400000 + code,
				Email:     "unique@example.com",
				Operation: model.OTPOperationSignup,
				IssuedAt:  now,
				ExpiresAt: now.Add(10 * time.Minute),
			})
			if err == nil {
				created.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, int64(1), created.Load())
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ur := repo.NewUserRepository(conn)
	sr := repo.NewSessionRepository(conn)

	u := createUser(t, ctx, ur, "sessions@example.com")
	now := time.Now()

	first := model.Session{ID: uuid.New(), UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	second := model.Session{ID: uuid.New(), UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, sr.Create(ctx, first))
	require.NoError(t, sr.Create(ctx, second))

	got, err := sr.GetByID(ctx, first.ID, now)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)

	// expired session resolves as missing
	expired := model.Session{ID: uuid.New(), UserID: u.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, sr.Create(ctx, expired))
	_, err = sr.GetByID(ctx, expired.ID, now)
	require.ErrorIs(t, err, model.ErrNotFound)

	// revoke everywhere but the first
	require.NoError(t, sr.DeleteAllByUser(ctx, u.ID, &first.ID))
	_, err = sr.GetByID(ctx, second.ID, now)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = sr.GetByID(ctx, first.ID, now)
	require.NoError(t, err)

	// delete is idempotent
	require.NoError(t, sr.Delete(ctx, first.ID))
	require.NoError(t, sr.Delete(ctx, first.ID))
}

func TestSessionRepository_DeletedUserSessionsVanish(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ur := repo.NewUserRepository(conn)
	sr := repo.NewSessionRepository(conn)

	u := createUser(t, ctx, ur, "cascade@example.com")
	now := time.Now()
	s := model.Session{ID: uuid.New(), UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, sr.Create(ctx, s))

	require.NoError(t, ur.Delete(ctx, u.ID))

	_, err = sr.GetByID(ctx, s.ID, now)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestTodoRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ur := repo.NewUserRepository(conn)
	tr := repo.NewTodoRepository(conn)

	owner := createUser(t, ctx, ur, "todos@example.com")
	stranger := createUser(t, ctx, ur, "stranger@example.com")
	now := time.Now()

	todo, err := tr.Create(ctx, model.Todo{
		ID:          uuid.New(),
		UserID:      owner.ID,
		Title:       "buy milk",
		Description: "two liters",
		IsImportant: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)

	// ownership scoping: another user cannot see it
	_, err = tr.GetByID(ctx, todo.ID, stranger.ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	got, err := tr.GetByID(ctx, todo.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "buy milk", got.Title)

	// completing stamps completed_on
	done := true
	updated, err := tr.Update(ctx, todo.ID, owner.ID, model.TodoUpdates{IsDone: &done})
	require.NoError(t, err)
	require.True(t, updated.IsDone)
	require.NotNil(t, updated.CompletedOn)

	// soft delete stamps deleted_on and hides it from the default filter
	del := true
	updated, err = tr.Update(ctx, todo.ID, owner.ID, model.TodoUpdates{IsDeleted: &del})
	require.NoError(t, err)
	require.True(t, updated.IsDeleted)
	require.NotNil(t, updated.DeletedOn)

	notDeleted := false
	visible, err := tr.List(ctx, owner.ID, model.TodoFilter{IsDeleted: &notDeleted}, 0, 10)
	require.NoError(t, err)
	require.Empty(t, visible)

	count, err := tr.Count(ctx, owner.ID, model.TodoFilter{IsDeleted: &del})
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.NoError(t, tr.Delete(ctx, todo.ID, owner.ID))
	_, err = tr.GetByID(ctx, todo.ID, owner.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestTodoRepository_ListPagination(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ur := repo.NewUserRepository(conn)
	tr := repo.NewTodoRepository(conn)

	owner := createUser(t, ctx, ur, "pages@example.com")
	for i := 0; i < 5; i++ {
		_, err := tr.Create(ctx, model.Todo{
			ID:        uuid.New(),
			UserID:    owner.ID,
			Title:     fmt.Sprintf("item %d", i),
			CreatedAt: time.Now().Add(time.Duration(i) * time.Millisecond),
			UpdatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	firstPage, err := tr.List(ctx, owner.ID, model.TodoFilter{}, 0, 2)
	require.NoError(t, err)
	require.Len(t, firstPage, 2)

	secondPage, err := tr.List(ctx, owner.ID, model.TodoFilter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	require.NotEqual(t, firstPage[0].ID, secondPage[0].ID)

	// newest first
	require.Equal(t, "item 4", firstPage[0].Title)

	require.NoError(t, tr.DeleteAllForUser(ctx, owner.ID))
	count, err := tr.Count(ctx, owner.ID, model.TodoFilter{})
	require.NoError(t, err)
	require.Zero(t, count)
}
