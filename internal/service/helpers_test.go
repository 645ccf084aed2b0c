package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"caravanshare/internal/config"
	"caravanshare/internal/database"
	"caravanshare/internal/domain"
	"caravanshare/internal/events"
	"caravanshare/internal/models"
	"caravanshare/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// recordingBus captures published events.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) PublishJSON(eventType string, payload interface{}) error {
	event, err := events.NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

func (b *recordingBus) last() events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.events[len(b.events)-1]
}

type testEnv struct {
	db           *database.DB
	bus          *recordingBus
	cache        *repository.MemoryLookupCache
	users        *UserService
	caravans     *CaravanService
	reservations *ReservationService
	payments     *PaymentService
	reviews      *ReviewService
}

func newTestEnv(t *testing.T, booking config.BookingConfig, requireStay bool) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := &recordingBus{}
	cache := repository.NewMemoryLookupCache(time.Minute)

	users := NewUserService(db, &logger)
	users.cost = bcrypt.MinCost

	return &testEnv{
		db:           db,
		bus:          bus,
		cache:        cache,
		users:        users,
		caravans:     NewCaravanService(db, &logger),
		reservations: NewReservationService(db, cache, bus, booking, &logger),
		payments:     NewPaymentService(db, cache, bus, &logger),
		reviews:      NewReviewService(db, bus, requireStay, &logger),
	}
}

func (e *testEnv) signup(t *testing.T, email, role string) *models.User {
	t.Helper()
	user, err := e.users.Signup(context.Background(), signupInput(email, role))
	require.NoError(t, err)
	return user
}

func (e *testEnv) listing(t *testing.T, hostID string, price int64) *models.Caravan {
	t.Helper()
	caravan, err := e.caravans.CreateCaravan(context.Background(), hostID, caravanInput(price))
	require.NoError(t, err)
	return caravan
}

func boolPtr(b bool) *bool { return &b }

func day(n int) time.Time {
	return time.Date(2030, 1, n, 0, 0, 0, 0, time.UTC)
}

func signupInput(email, role string) domain.SignupInput {
	return domain.SignupInput{
		Email:    email,
		Password: "secret-password",
		Name:     "User " + email,
		Role:     role,
	}
}

func caravanInput(price int64) domain.CaravanInput {
	return domain.CaravanInput{
		Name:        "Camper",
		Description: "Four berth camper van",
		Location:    "Jeju",
		PricePerDay: price,
		Capacity:    4,
		Images:      []string{"https://img.example.com/1.jpg"},
	}
}
