package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lenslink-backend-go/internal/db"
	"lenslink-backend-go/internal/models"
)

// fakeUserRepo serves users by ID and email from in-memory maps.
type fakeUserRepo struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
	byRole  map[string][]*models.User
	listErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
		byRole:  make(map[string][]*models.User),
	}
}

func (f *fakeUserRepo) add(u *models.User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	f.byRole[u.Role] = append(f.byRole[u.Role], u)
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	if u, ok := f.byID[userID]; ok {
		return u, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role string) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byRole[role], nil
}

func (f *fakeUserRepo) Create(_ context.Context, _ *models.User) error { return nil }
func (f *fakeUserRepo) Update(_ context.Context, _ *models.User) error { return nil }
func (f *fakeUserRepo) List(_ context.Context) ([]*models.User, error) {
	return nil, nil
}

type sentSMS struct {
	Phone   string
	Message string
}

// fakeSMS records every send. Safe for the fan-out's concurrent sends.
type fakeSMS struct {
	mu    sync.Mutex
	sent  []sentSMS
	fails map[string]error // phone -> error to return
}

func newFakeSMS() *fakeSMS {
	return &fakeSMS{fails: make(map[string]error)}
}

func (f *fakeSMS) Send(_ context.Context, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fails[phone]; ok {
		return err
	}
	f.sent = append(f.sent, sentSMS{Phone: phone, Message: message})
	return nil
}

func (f *fakeSMS) messages() []sentSMS {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentSMS, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeSMS) to(phone string) []sentSMS {
	var out []sentSMS
	for _, s := range f.messages() {
		if s.Phone == phone {
			out = append(out, s)
		}
	}
	return out
}

// fakePayments records commit calls.
type fakePayments struct {
	mu        sync.Mutex
	committed []string
	err       error
}

func (f *fakePayments) CommitTransaction(_ context.Context, transactionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.committed = append(f.committed, transactionID)
	return nil
}

func (f *fakePayments) commits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.committed))
	copy(out, f.committed)
	return out
}

func testEvent(status string) *models.Event {
	return &models.Event{
		ID:          "evt-1",
		Name:        "Bar Mitzvah",
		Address:     "12 Herzl St",
		City:        "Tel Aviv",
		Type:        "bar-mitzvah",
		Date:        time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Time:        "19:30",
		ContactName: "Dana",
		User:        "host@example.com",
		Status:      status,
	}
}

func newTestNotifier(repo *fakeUserRepo, sms *fakeSMS, pay *fakePayments) *Notifier {
	return NewNotifier(repo, sms, pay, "https://app.lenslink.example", zap.NewNop())
}

func TestDecide(t *testing.T) {
	submitted := testEvent(models.StatusSubmitted)
	paid := testEvent(models.StatusPaid)
	accepted := testEvent(models.StatusAccepted)
	pending := testEvent(models.StatusPendingUpload)
	uploaded := testEvent(models.StatusUploaded)
	weird := testEvent("archived")

	cases := []struct {
		name   string
		change models.EventChange
		want   Action
	}{
		{"created submitted", models.EventChange{Kind: models.ChangeCreated, After: submitted}, ActionWelcome},
		{"created already paid", models.EventChange{Kind: models.ChangeCreated, After: paid}, ActionNone},
		{"deleted", models.EventChange{Kind: models.ChangeDeleted, Before: paid}, ActionNone},
		{"update without status change", models.EventChange{Kind: models.ChangeUpdated, Before: paid, After: paid}, ActionNone},
		{"submitted to paid", models.EventChange{Kind: models.ChangeUpdated, Before: submitted, After: paid}, ActionFanOut},
		{"paid to accepted", models.EventChange{Kind: models.ChangeUpdated, Before: paid, After: accepted}, ActionBookingConfirmed},
		{"accepted to pending-upload", models.EventChange{Kind: models.ChangeUpdated, Before: accepted, After: pending}, ActionUploadReminder},
		{"pending-upload to uploaded", models.EventChange{Kind: models.ChangeUpdated, Before: pending, After: uploaded}, ActionDelivered},
		{"unknown target status", models.EventChange{Kind: models.ChangeUpdated, Before: uploaded, After: weird}, ActionUnknownStatus},
		{"update missing snapshots", models.EventChange{Kind: models.ChangeUpdated}, ActionNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.change))
		})
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	change := models.EventChange{
		Kind:   models.ChangeUpdated,
		Before: testEvent(models.StatusPaid),
		After:  testEvent(models.StatusAccepted),
	}
	first := Decide(change)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Decide(change))
	}
}

func TestWelcomeHostSendsEventNameToHostPhone(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient, PhoneNumber: "0501234567"})
	sms := newFakeSMS()
	pay := &fakePayments{}
	n := newTestNotifier(repo, sms, pay)

	n.HandleChange(context.Background(), models.EventChange{
		Kind:  models.ChangeCreated,
		After: testEvent(models.StatusSubmitted),
	})

	sent := sms.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "0501234567", sent[0].Phone)
	assert.Contains(t, sent[0].Message, "Bar Mitzvah")
	assert.Empty(t, pay.commits())
}

func TestWelcomeHostWithoutPhoneSendsNothing(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient})
	sms := newFakeSMS()
	n := newTestNotifier(repo, sms, &fakePayments{})

	n.HandleChange(context.Background(), models.EventChange{
		Kind:  models.ChangeCreated,
		After: testEvent(models.StatusSubmitted),
	})

	assert.Empty(t, sms.messages())
}

func TestFanOutReachesEveryPhotographerWithAPhone(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "p1", Email: "p1@example.com", Role: models.RolePhotographer, PhoneNumber: "0521111111"})
	repo.add(&models.User{ID: "p2", Email: "p2@example.com", Role: models.RolePhotographer, PhoneNumber: "0522222222"})
	repo.add(&models.User{ID: "p3", Email: "p3@example.com", Role: models.RolePhotographer}) // no phone
	repo.add(&models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient, PhoneNumber: "0501234567"})
	sms := newFakeSMS()
	n := newTestNotifier(repo, sms, &fakePayments{})

	n.HandleChange(context.Background(), models.EventChange{
		Kind:   models.ChangeUpdated,
		Before: testEvent(models.StatusSubmitted),
		After:  testEvent(models.StatusPaid),
	})

	sent := sms.messages()
	require.Len(t, sent, 2)
	phones := []string{sent[0].Phone, sent[1].Phone}
	assert.ElementsMatch(t, []string{"0521111111", "0522222222"}, phones)
	for _, s := range sent {
		assert.Contains(t, s.Message, "Bar Mitzvah")
		assert.Contains(t, s.Message, "/marketplace")
	}
}

func TestFanOutOneFailureDoesNotBlockOthers(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "p1", Email: "p1@example.com", Role: models.RolePhotographer, PhoneNumber: "0521111111"})
	repo.add(&models.User{ID: "p2", Email: "p2@example.com", Role: models.RolePhotographer, PhoneNumber: "0522222222"})
	sms := newFakeSMS()
	sms.fails["0521111111"] = errors.New("gateway timeout")
	n := newTestNotifier(repo, sms, &fakePayments{})

	n.HandleChange(context.Background(), models.EventChange{
		Kind:   models.ChangeUpdated,
		Before: testEvent(models.StatusSubmitted),
		After:  testEvent(models.StatusPaid),
	})

	sent := sms.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "0522222222", sent[0].Phone)
}

func TestBookingConfirmedExchangesPhonesAndCommitsOnce(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient, PhoneNumber: "0501234567"})
	repo.add(&models.User{ID: "photo-1", Email: "photo@example.com", DisplayName: "Avi", Role: models.RolePhotographer, PhoneNumber: "0529999999"})
	sms := newFakeSMS()
	pay := &fakePayments{}
	n := newTestNotifier(repo, sms, pay)

	accepted := testEvent(models.StatusAccepted)
	accepted.PhotographerID = "photo-1"
	accepted.TransactionID = "txn-42"

	n.HandleChange(context.Background(), models.EventChange{
		Kind:   models.ChangeUpdated,
		Before: testEvent(models.StatusPaid),
		After:  accepted,
	})

	sent := sms.messages()
	require.Len(t, sent, 2)

	toHost := sms.to("0501234567")
	require.Len(t, toHost, 1)
	assert.Contains(t, toHost[0].Message, "0529999999")
	assert.Contains(t, toHost[0].Message, "Avi")

	toPhotographer := sms.to("0529999999")
	require.Len(t, toPhotographer, 1)
	assert.Contains(t, toPhotographer[0].Message, "0501234567")
	assert.Contains(t, toPhotographer[0].Message, "15/09/2026")

	assert.Equal(t, []string{"txn-42"}, pay.commits())
}

func TestBookingConfirmedMissingTransactionIDStopsEverything(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient, PhoneNumber: "0501234567"})
	repo.add(&models.User{ID: "photo-1", Email: "photo@example.com", Role: models.RolePhotographer, PhoneNumber: "0529999999"})
	sms := newFakeSMS()
	pay := &fakePayments{}
	n := newTestNotifier(repo, sms, pay)

	accepted := testEvent(models.StatusAccepted)
	accepted.PhotographerID = "photo-1"
	// TransactionID deliberately absent.

	n.HandleChange(context.Background(), models.EventChange{
		Kind:   models.ChangeUpdated,
		Before: testEvent(models.StatusPaid),
		After:  accepted,
	})

	assert.Empty(t, sms.messages())
	assert.Empty(t, pay.commits())
}

func TestBookingConfirmedMissingPhotographerStops(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient, PhoneNumber: "0501234567"})
	sms := newFakeSMS()
	pay := &fakePayments{}
	n := newTestNotifier(repo, sms, pay)

	accepted := testEvent(models.StatusAccepted)
	accepted.TransactionID = "txn-42"
	// PhotographerID deliberately absent.

	n.HandleChange(context.Background(), models.EventChange{
		Kind:   models.ChangeUpdated,
		Before: testEvent(models.StatusPaid),
		After:  accepted,
	})

	assert.Empty(t, sms.messages())
	assert.Empty(t, pay.commits())
}

func TestBookingConfirmedSMSFailureStillCommits(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient, PhoneNumber: "0501234567"})
	repo.add(&models.User{ID: "photo-1", Email: "photo@example.com", Role: models.RolePhotographer, PhoneNumber: "0529999999"})
	sms := newFakeSMS()
	sms.fails["0501234567"] = errors.New("gateway down")
	pay := &fakePayments{}
	n := newTestNotifier(repo, sms, pay)

	accepted := testEvent(models.StatusAccepted)
	accepted.PhotographerID = "photo-1"
	accepted.TransactionID = "txn-42"

	n.HandleChange(context.Background(), models.EventChange{
		Kind:   models.ChangeUpdated,
		Before: testEvent(models.StatusPaid),
		After:  accepted,
	})

	// The photographer still hears about the booking and the commit still runs.
	require.Len(t, sms.to("0529999999"), 1)
	assert.Equal(t, []string{"txn-42"}, pay.commits())
}

func TestUploadReminderMentionsDeadline(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "photo-1", Email: "photo@example.com", Role: models.RolePhotographer, PhoneNumber: "0529999999"})
	sms := newFakeSMS()
	n := newTestNotifier(repo, sms, &fakePayments{})

	pending := testEvent(models.StatusPendingUpload)
	pending.PhotographerID = "photo-1"

	n.HandleChange(context.Background(), models.EventChange{
		Kind:   models.ChangeUpdated,
		Before: testEvent(models.StatusAccepted),
		After:  pending,
	})

	sent := sms.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "0529999999", sent[0].Phone)
	assert.Contains(t, sent[0].Message, "24 hours")
}

func TestDeliveredNotifiesHost(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient, PhoneNumber: "0501234567"})
	sms := newFakeSMS()
	n := newTestNotifier(repo, sms, &fakePayments{})

	n.HandleChange(context.Background(), models.EventChange{
		Kind:   models.ChangeUpdated,
		Before: testEvent(models.StatusPendingUpload),
		After:  testEvent(models.StatusUploaded),
	})

	sent := sms.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "0501234567", sent[0].Phone)
	assert.Contains(t, sent[0].Message, "one month")
}

func TestHandleMessageDropsBadPayload(t *testing.T) {
	repo := newFakeUserRepo()
	sms := newFakeSMS()
	pay := &fakePayments{}
	n := newTestNotifier(repo, sms, pay)

	n.HandleMessage(context.Background(), []byte("{not json"))

	assert.Empty(t, sms.messages())
	assert.Empty(t, pay.commits())
}

func TestHandleMessageDecodesEnvelope(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient, PhoneNumber: "0501234567"})
	sms := newFakeSMS()
	n := newTestNotifier(repo, sms, &fakePayments{})

	payload := []byte(`{"kind":"created","after":{"id":"evt-1","name":"Bar Mitzvah","user":"host@example.com","status":"submitted","date":"2026-09-15T00:00:00Z","createdAt":"2026-08-01T00:00:00Z","updatedAt":"2026-08-01T00:00:00Z"}}`)
	n.HandleMessage(context.Background(), payload)

	sent := sms.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Message, "Bar Mitzvah")
}

func TestUnknownStatusIsLogOnly(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(&models.User{ID: "host-1", Email: "host@example.com", Role: models.RoleClient, PhoneNumber: "0501234567"})
	sms := newFakeSMS()
	pay := &fakePayments{}
	n := newTestNotifier(repo, sms, pay)

	n.HandleChange(context.Background(), models.EventChange{
		Kind:   models.ChangeUpdated,
		Before: testEvent(models.StatusUploaded),
		After:  testEvent("archived"),
	})

	assert.Empty(t, sms.messages())
	assert.Empty(t, pay.commits())
}
