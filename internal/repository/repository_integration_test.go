package repository_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/capacity"
	"github.com/Shivanand-hulikatti/eventhub/internal/database"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	sharedOnce      sync.Once
	sharedInitErr   error
	sharedContainer *postgres.PostgresContainer
	sharedPool      *pgxpool.Pool
)

func TestMain(m *testing.M) {
	code := m.Run()
	if sharedPool != nil {
		sharedPool.Close()
	}
	if sharedContainer != nil {
		_ = testcontainers.TerminateContainer(sharedContainer)
	}
	os.Exit(code)
}

// setupRepository returns a Repository over a freshly truncated database. The
// PostgreSQL container is started once per package run.
func setupRepository(t *testing.T) (*repository.Repository, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database integration test in -short mode")
	}

	sharedOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("eventhub"),
			postgres.WithUsername("eventhub"),
			postgres.WithPassword("eventhub"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			sharedInitErr = err
			return
		}
		sharedContainer = container

		dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedInitErr = err
			return
		}
		if _, err := database.MigrateUp(dbURL); err != nil {
			sharedInitErr = err
			return
		}

		sharedPool, sharedInitErr = pgxpool.New(ctx, dbURL)
	})
	if sharedInitErr != nil {
		t.Skipf("postgres container unavailable: %v", sharedInitErr)
	}

	_, err := sharedPool.Exec(context.Background(), `
		TRUNCATE event_participants, feedback, sponsors, events, participants,
		         locations, blacklist, whitelist RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return repository.NewRepository(sharedPool), sharedPool
}

func ptr[T any](v T) *T { return &v }

func createVenue(t *testing.T, repo *repository.Repository, capacity int) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	loc, err := repo.CreateLocation(ctx, model.CreateLocationRequest{
		Name: "Hall", Capacity: ptr(capacity), Address: "1 Main St", City: "Springfield",
	})
	require.NoError(t, err)

	ev, err := repo.CreateEvent(ctx, model.CreateEventRequest{
		Name: "Meetup", EventDate: "2026-05-01", LocationID: ptr(loc),
	})
	require.NoError(t, err)
	return loc, ev
}

func TestEventLifecycle(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()
	loc, ev := createVenue(t, repo, 10)

	events, err := repo.EventsByDate(ctx, "2026-05-01")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, model.Event{ID: ev, Name: "Meetup", EventDate: "2026-05-01", LocationID: loc}, events[0])

	require.NoError(t, repo.UpdateEvent(ctx, ev, model.UpdateEventRequest{
		EventDate:     ptr("2026-05-02"),
		OrganizerName: ptr("Ada"),
	}))
	events, err = repo.ListEvents(ctx)
	require.NoError(t, err)
	require.Equal(t, "2026-05-02", events[0].EventDate)
	require.Equal(t, "Ada", *events[0].OrganizerName)

	require.ErrorIs(t, repo.UpdateEvent(ctx, ev, model.UpdateEventRequest{}), repository.ErrNoChanges)
	require.ErrorIs(t, repo.UpdateEvent(ctx, ev+100, model.UpdateEventRequest{Name: ptr("x")}), repository.ErrNotFound)

	got, err := repo.EventLocation(ctx, ev)
	require.NoError(t, err)
	require.Equal(t, loc, got)

	_, err = repo.EventLocation(ctx, ev+100)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.DeleteEvent(ctx, ev))
	require.ErrorIs(t, repo.DeleteEvent(ctx, ev), repository.ErrNotFound)
}

func TestCreateEventExplicitID(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()
	loc, _ := createVenue(t, repo, 10)

	req := model.CreateEventRequest{EventID: ptr(int64(1000)), Name: "Fixed", EventDate: "2026-08-01", LocationID: ptr(loc)}
	id, err := repo.CreateEvent(ctx, req)
	require.NoError(t, err)
	require.Equal(t, int64(1000), id)

	_, err = repo.CreateEvent(ctx, req)
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestCreateEventAfterExplicitIDUsesNextFreeID(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	loc, err := repo.CreateLocation(ctx, model.CreateLocationRequest{
		Name: "Hall", Capacity: ptr(10), Address: "1 Main St", City: "Springfield",
	})
	require.NoError(t, err)

	fixed, err := repo.CreateEvent(ctx, model.CreateEventRequest{
		EventID: ptr(int64(1)), Name: "Fixed", EventDate: "2026-08-01", LocationID: ptr(loc),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), fixed)

	next, err := repo.CreateEvent(ctx, model.CreateEventRequest{
		Name: "Generated", EventDate: "2026-08-02", LocationID: ptr(loc),
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), next)

	// A lower explicit id must not rewind the sequence.
	_, err = repo.CreateEvent(ctx, model.CreateEventRequest{
		EventID: ptr(int64(10)), Name: "Far", EventDate: "2026-08-03", LocationID: ptr(loc),
	})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteEvent(ctx, 10))
	_, err = repo.CreateEvent(ctx, model.CreateEventRequest{
		EventID: ptr(int64(5)), Name: "Middle", EventDate: "2026-08-04", LocationID: ptr(loc),
	})
	require.NoError(t, err)

	last, err := repo.CreateEvent(ctx, model.CreateEventRequest{
		Name: "After", EventDate: "2026-08-05", LocationID: ptr(loc),
	})
	require.NoError(t, err)
	require.Equal(t, int64(11), last)
}

func TestDeleteParticipantCascadesAssociations(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()
	_, ev := createVenue(t, repo, 10)

	p, err := repo.CreateParticipant(ctx, model.CreateParticipantRequest{Name: "Ada", Email: "ada@example.com", EventID: ptr(ev)})
	require.NoError(t, err)
	require.NoError(t, repo.AddEventParticipant(ctx, ev, p))

	require.NoError(t, repo.DeleteParticipant(ctx, p))
	n, err := repo.CountEventParticipants(ctx, ev)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLocationConstraints(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()
	loc, _ := createVenue(t, repo, 10)

	n, err := repo.CountEventsAtLocation(ctx, loc)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.ErrorIs(t, repo.DeleteLocation(ctx, loc), repository.ErrReferenced)

	capacityValue, err := repo.LocationCapacity(ctx, loc)
	require.NoError(t, err)
	require.Equal(t, 10, capacityValue)

	_, err = repo.LocationCapacity(ctx, loc+100)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestParticipantAssociations(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()
	_, ev := createVenue(t, repo, 10)

	p, err := repo.CreateParticipant(ctx, model.CreateParticipantRequest{Name: "Ada", Email: "ada@example.com", EventID: ptr(ev)})
	require.NoError(t, err)
	require.NoError(t, repo.AddEventParticipant(ctx, ev, p))
	require.ErrorIs(t, repo.AddEventParticipant(ctx, ev, p), repository.ErrDuplicate)
	require.ErrorIs(t, repo.AddEventParticipant(ctx, ev+100, p), repository.ErrReferenced)

	registered, err := repo.ParticipantsByStatus(ctx, model.StatusRegistered)
	require.NoError(t, err)
	require.Len(t, registered, 1)

	ids, err := repo.ParticipantEventIDs(ctx, p)
	require.NoError(t, err)
	require.Equal(t, []int64{ev}, ids)

	n, err := repo.CountEventParticipants(ctx, ev)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, repo.RemoveEventParticipants(ctx, ev))
	n, err = repo.CountEventParticipants(ctx, ev)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, repo.UpdateParticipant(ctx, p, model.UpdateParticipantRequest{Status: ptr(model.StatusCanceled)}))
	canceled, err := repo.ParticipantsByStatus(ctx, model.StatusCanceled)
	require.NoError(t, err)
	require.Len(t, canceled, 1)

	require.NoError(t, repo.DeleteParticipant(ctx, p))
	require.ErrorIs(t, repo.DeleteParticipant(ctx, p), repository.ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()
	boom := errors.New("abort")

	err := repo.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		_, err := tx.CreateParticipant(ctx, model.CreateParticipantRequest{Name: "Ghost", Email: "ghost@example.com"})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	participants, err := repo.ListParticipants(ctx)
	require.NoError(t, err)
	require.Empty(t, participants)
}

func TestConcurrentRegistrationsRespectCapacity(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()
	_, ev := createVenue(t, repo, 3)
	svc := service.NewParticipantService(repo)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateParticipant(ctx, model.CreateParticipantRequest{
				Name: "guest", Email: "guest@example.com", EventID: ptr(ev),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	admitted, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, capacity.ErrCapacityExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 3, admitted)
	require.Equal(t, attempts-3, rejected)

	n, err := repo.CountEventParticipants(ctx, ev)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestRowsByEvent(t *testing.T) {
	repo, pool := setupRepository(t)
	ctx := context.Background()
	_, ev := createVenue(t, repo, 10)

	_, err := pool.Exec(ctx, `INSERT INTO feedback (event_id, rating, comments) VALUES ($1, 5, 'Great')`, ev)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO sponsors (event_id, name) VALUES ($1, 'Acme')`, ev)
	require.NoError(t, err)

	feedback, err := repo.FeedbackByEvent(ctx, ev)
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	require.Equal(t, "Great", feedback[0]["comments"])
	require.EqualValues(t, 5, feedback[0]["rating"])

	sponsors, err := repo.SponsorsByEvent(ctx, ev)
	require.NoError(t, err)
	require.Len(t, sponsors, 1)
	require.Equal(t, "Acme", sponsors[0]["name"])

	empty, err := repo.FeedbackByEvent(ctx, ev+100)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestAccessEntries(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AddAccessEntry(ctx, model.Blacklist, "10.0.0.1"))
	require.NoError(t, repo.AddAccessEntry(ctx, model.Blacklist, "10.0.0.1"))

	found, err := repo.HasAccessEntry(ctx, model.Blacklist, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, found)

	found, err = repo.HasAccessEntry(ctx, model.Whitelist, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, repo.RemoveAccessEntry(ctx, model.Blacklist, "10.0.0.1"))
	require.NoError(t, repo.RemoveAccessEntry(ctx, model.Blacklist, "10.0.0.1"))

	found, err = repo.HasAccessEntry(ctx, model.Blacklist, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestPing(t *testing.T) {
	repo, _ := setupRepository(t)
	require.NoError(t, repo.Ping(context.Background()))
}
