package core

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lenslink-backend-go/internal/db"
	"lenslink-backend-go/internal/models"
	"lenslink-backend-go/internal/queue"
)

// fakeEventRepo stores events in a map keyed by ID.
type fakeEventRepo struct {
	events map[string]*models.Event
	nextID int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*models.Event)}
}

func (f *fakeEventRepo) put(event *models.Event) {
	cp := *event
	f.events[event.ID] = &cp
}

func (f *fakeEventRepo) Create(_ context.Context, event *models.Event) (string, error) {
	f.nextID++
	id := "evt-" + strconv.Itoa(f.nextID)
	cp := *event
	cp.ID = id
	f.events[id] = &cp
	return id, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, eventID string) (*models.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *event
	return &cp, nil
}

func (f *fakeEventRepo) GetByHost(_ context.Context, hostEmail string) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range f.events {
		if e.User == hostEmail {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetByStatus(_ context.Context, eventStatus string) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range f.events {
		if e.Status == eventStatus {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetDueForUpload(_ context.Context, cutoff time.Time) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range f.events {
		if e.Status == models.StatusAccepted && !e.Date.After(cutoff) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *event
	f.events[event.ID] = &cp
	return nil
}

func (f *fakeEventRepo) List(_ context.Context) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range f.events {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

// fakePublisher captures published envelopes.
type fakePublisher struct {
	published []models.EventChange
	queues    []string
}

func (f *fakePublisher) Publish(queueName string, body []byte) error {
	var change models.EventChange
	if err := json.Unmarshal(body, &change); err != nil {
		return err
	}
	f.published = append(f.published, change)
	f.queues = append(f.queues, queueName)
	return nil
}

// fakeCache is a map-backed Cache recording deletes.
type fakeCache struct {
	entries map[string]string
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) Get(key string) (string, error) {
	return f.entries[key], nil
}

func (f *fakeCache) Set(key string, value interface{}, _ time.Duration) error {
	f.entries[key] = value.(string)
	return nil
}

func (f *fakeCache) Delete(key string) error {
	f.deletes = append(f.deletes, key)
	delete(f.entries, key)
	return nil
}

func seededEvent(id, status string) *models.Event {
	return &models.Event{
		ID:     id,
		Name:   "Garden Wedding",
		City:   "Haifa",
		Date:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		User:   "host@example.com",
		Status: status,
	}
}

func newTestEventService(repo *fakeEventRepo, c *fakeCache, pub *fakePublisher) EventService {
	var svc EventService
	if c != nil {
		svc = NewEventService(repo, c, pub, zap.NewNop())
	} else {
		svc = NewEventService(repo, nil, pub, zap.NewNop())
	}
	return svc
}

func TestCreateEventStartsSubmittedAndPublishesCreated(t *testing.T) {
	repo := newFakeEventRepo()
	pub := &fakePublisher{}
	svc := newTestEventService(repo, nil, pub)

	event, err := svc.CreateEvent(context.Background(), "host@example.com", models.CreateEventRequest{
		Name:    "Garden Wedding",
		Address: "1 Vine St",
		City:    "Haifa",
		Date:    time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, event.Status)
	assert.Equal(t, "host@example.com", event.User)
	assert.NotEmpty(t, event.ID)

	require.Len(t, pub.published, 1)
	assert.Equal(t, models.ChangeCreated, pub.published[0].Kind)
	assert.Nil(t, pub.published[0].Before)
	require.NotNil(t, pub.published[0].After)
	assert.Equal(t, models.StatusSubmitted, pub.published[0].After.Status)
	assert.Equal(t, queue.EventChangesQueue, pub.queues[0])
}

func TestMarkPaidStoresTransactionAndPublishesBothSnapshots(t *testing.T) {
	repo := newFakeEventRepo()
	repo.put(seededEvent("evt-1", models.StatusSubmitted))
	pub := &fakePublisher{}
	svc := newTestEventService(repo, nil, pub)

	event, err := svc.MarkPaid(context.Background(), "evt-1", "txn-42")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, event.Status)
	assert.Equal(t, "txn-42", event.TransactionID)

	require.Len(t, pub.published, 1)
	change := pub.published[0]
	assert.Equal(t, models.ChangeUpdated, change.Kind)
	require.NotNil(t, change.Before)
	require.NotNil(t, change.After)
	assert.Equal(t, models.StatusSubmitted, change.Before.Status)
	assert.Equal(t, models.StatusPaid, change.After.Status)
}

func TestMarkPaidRejectsEmptyTransactionID(t *testing.T) {
	repo := newFakeEventRepo()
	repo.put(seededEvent("evt-1", models.StatusSubmitted))
	svc := newTestEventService(repo, nil, &fakePublisher{})

	_, err := svc.MarkPaid(context.Background(), "evt-1", "")
	assert.Error(t, err)
}

func TestTransitionsAreForwardOnly(t *testing.T) {
	cases := []struct {
		name string
		from string
		call func(svc EventService) error
	}{
		{
			name: "paid on already paid event",
			from: models.StatusPaid,
			call: func(svc EventService) error {
				_, err := svc.MarkPaid(context.Background(), "evt-1", "txn-99")
				return err
			},
		},
		{
			name: "accept on submitted event",
			from: models.StatusSubmitted,
			call: func(svc EventService) error {
				_, err := svc.AcceptEvent(context.Background(), "photo-1", "evt-1")
				return err
			},
		},
		{
			name: "accept on already accepted event",
			from: models.StatusAccepted,
			call: func(svc EventService) error {
				_, err := svc.AcceptEvent(context.Background(), "photo-2", "evt-1")
				return err
			},
		},
		{
			name: "uploaded on paid event",
			from: models.StatusPaid,
			call: func(svc EventService) error {
				_, err := svc.MarkUploaded(context.Background(), "photo-1", "evt-1")
				return err
			},
		},
		{
			name: "pending-upload on uploaded event",
			from: models.StatusUploaded,
			call: func(svc EventService) error {
				_, err := svc.MarkPendingUpload(context.Background(), "evt-1")
				return err
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			repo.put(seededEvent("evt-1", tc.from))
			pub := &fakePublisher{}
			svc := newTestEventService(repo, nil, pub)

			err := tc.call(svc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Empty(t, pub.published, "a rejected transition must not publish a change")
		})
	}
}

func TestAcceptEventAssignsPhotographer(t *testing.T) {
	repo := newFakeEventRepo()
	repo.put(seededEvent("evt-1", models.StatusPaid))
	pub := &fakePublisher{}
	svc := newTestEventService(repo, nil, pub)

	event, err := svc.AcceptEvent(context.Background(), "photo-1", "evt-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, event.Status)
	assert.Equal(t, "photo-1", event.PhotographerID)

	// Second accept loses: the event already left paid.
	_, err = svc.AcceptEvent(context.Background(), "photo-2", "evt-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := repo.GetByID(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "photo-1", stored.PhotographerID)
}

func TestMarkUploadedRequiresAssignedPhotographer(t *testing.T) {
	repo := newFakeEventRepo()
	pending := seededEvent("evt-1", models.StatusPendingUpload)
	pending.PhotographerID = "photo-1"
	repo.put(pending)
	svc := newTestEventService(repo, nil, &fakePublisher{})

	_, err := svc.MarkUploaded(context.Background(), "photo-2", "evt-1")
	assert.ErrorIs(t, err, ErrNotAssigned)

	event, err := svc.MarkUploaded(context.Background(), "photo-1", "evt-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUploaded, event.Status)
}

func TestTransitionOnMissingEvent(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newTestEventService(repo, nil, &fakePublisher{})

	_, err := svc.MarkPaid(context.Background(), "missing", "txn-1")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetEventByIDAccessControl(t *testing.T) {
	repo := newFakeEventRepo()
	event := seededEvent("evt-1", models.StatusAccepted)
	event.PhotographerID = "photo-1"
	repo.put(event)
	svc := newTestEventService(repo, nil, &fakePublisher{})

	host := &models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient}
	assigned := &models.User{ID: "photo-1", Email: "photo@example.com", Role: models.RolePhotographer}
	stranger := &models.User{ID: "photo-2", Email: "other@example.com", Role: models.RolePhotographer}
	admin := &models.User{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}

	for _, u := range []*models.User{host, assigned, admin} {
		got, err := svc.GetEventByID(context.Background(), u, "evt-1")
		require.NoError(t, err, "role %s should see the event", u.Role)
		assert.Equal(t, "evt-1", got.ID)
	}

	_, err := svc.GetEventByID(context.Background(), stranger, "evt-1")
	assert.ErrorIs(t, err, ErrForbiddenAccess)
}

func TestListOpenJobsUsesAndInvalidatesCache(t *testing.T) {
	repo := newFakeEventRepo()
	repo.put(seededEvent("evt-1", models.StatusPaid))
	c := newFakeCache()
	svc := newTestEventService(repo, c, &fakePublisher{})

	// First listing populates the cache.
	jobs, err := svc.ListOpenJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.NotEmpty(t, c.entries["events:open-jobs"])

	// Second listing is served from cache even after the store changes.
	repo.put(seededEvent("evt-2", models.StatusPaid))
	jobs, err = svc.ListOpenJobs(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	// Any write invalidates the listing.
	_, err = svc.AcceptEvent(context.Background(), "photo-1", "evt-1")
	require.NoError(t, err)
	assert.Contains(t, c.deletes, "events:open-jobs")

	jobs, err = svc.ListOpenJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "evt-2", jobs[0].ID)
}

func TestListOpenJobsSurvivesCorruptCacheEntry(t *testing.T) {
	repo := newFakeEventRepo()
	repo.put(seededEvent("evt-1", models.StatusPaid))
	c := newFakeCache()
	c.entries["events:open-jobs"] = "{broken"
	svc := newTestEventService(repo, c, &fakePublisher{})

	jobs, err := svc.ListOpenJobs(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	repo := newFakeEventRepo()
	repo.put(seededEvent("evt-1", models.StatusSubmitted))
	svc := NewEventService(repo, nil, failingPublisher{}, zap.NewNop())

	event, err := svc.MarkPaid(context.Background(), "evt-1", "txn-42")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, event.Status)
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, []byte) error {
	return errors.New("broker unavailable")
}
