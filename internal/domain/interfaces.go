package domain

import (
	"context"
	"time"

	"caravanshare/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id string, name, contactNumber *string) (*models.User, error)
}

type CaravanRepository interface {
	CreateCaravan(ctx context.Context, caravan *models.Caravan) error
	GetCaravan(ctx context.Context, id string) (*models.Caravan, error)
	GetCaravanDetail(ctx context.Context, id string) (*models.CaravanDetail, error)
	ListCaravans(ctx context.Context) ([]*models.Caravan, error)
	ListCaravansByHost(ctx context.Context, hostID string) ([]*models.Caravan, error)
	UpdateCaravan(ctx context.Context, caravan *models.Caravan) error
	DeleteCaravan(ctx context.Context, id string) error
}

type ReservationRepository interface {
	CreateReservationWithPayment(ctx context.Context, reservation *models.Reservation, payment *models.Payment) error
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListReservationsByGuest(ctx context.Context, guestID string) ([]*models.Reservation, error)
	ListReservationsByHost(ctx context.Context, hostID string) ([]*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id, fromStatus, toStatus string) error
	ListBookedRanges(ctx context.Context, caravanID string, from, to time.Time) ([]models.BookedRange, error)
	HasOverlap(ctx context.Context, caravanID string, start, end time.Time) (bool, error)
	HasConfirmedReservation(ctx context.Context, guestID, caravanID string) (bool, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment, confirmReservation bool) error
	ListPaymentsByUser(ctx context.Context, userID string) ([]*models.Payment, error)
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	ReviewExists(ctx context.Context, authorID, caravanID string) (bool, error)
	ListReviewsByCaravan(ctx context.Context, caravanID string) ([]*models.Review, error)
}

// Repository is the full storage surface implemented by database.DB.
type Repository interface {
	UserRepository
	CaravanRepository
	ReservationRepository
	PaymentRepository
	ReviewRepository
	PingContext(ctx context.Context) error
}

// LookupCache keeps reservation snapshots for anonymous lookups and
// fixed-window counters for throttling them.
type LookupCache interface {
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	SetReservation(ctx context.Context, reservation *models.Reservation) error
	Invalidate(ctx context.Context, id string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type UserService interface {
	Signup(ctx context.Context, input SignupInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, name, contactNumber *string) (*models.User, error)
}

type CaravanService interface {
	ListCaravans(ctx context.Context) ([]*models.Caravan, error)
	ListCaravansByHost(ctx context.Context, hostID string) ([]*models.Caravan, error)
	GetCaravan(ctx context.Context, id string) (*models.CaravanDetail, error)
	CreateCaravan(ctx context.Context, hostID string, input CaravanInput) (*models.Caravan, error)
	UpdateCaravan(ctx context.Context, id, actorID string, input CaravanInput) (*models.Caravan, error)
	DeleteCaravan(ctx context.Context, id, actorID string) error
}

type ReservationService interface {
	CreateReservation(ctx context.Context, input ReservationInput) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id, status, actorID string) (*models.Reservation, error)
	Lookup(ctx context.Context, id string) (*models.Reservation, error)
	ListByGuest(ctx context.Context, guestID string) ([]*models.Reservation, error)
	ListByHost(ctx context.Context, hostID string) ([]*models.Reservation, error)
	Quote(ctx context.Context, caravanID string, start, end time.Time) (*models.Quote, error)
	Availability(ctx context.Context, caravanID string, from, to time.Time) ([]models.BookedRange, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, input PaymentInput) (*models.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Payment, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, input ReviewInput) (*models.Review, error)
	ListByCaravan(ctx context.Context, caravanID string) ([]*models.Review, error)
}

type SignupInput struct {
	Email          string
	Password       string
	Name           string
	ContactNumber  *string
	ProfilePicture *string
	Role           string
}

type CaravanInput struct {
	Name        string
	Description string
	Location    string
	PricePerDay int64
	Capacity    int
	Images      []string
}

type ReservationInput struct {
	CaravanID string
	GuestID   string
	StartDate time.Time
	EndDate   time.Time
	// ClientTotal is the price the client displayed; only compared, never stored.
	ClientTotal *int64
}

type PaymentInput struct {
	ReservationID string
	UserID        string
	Amount        int64
	Method        string
	Status        string
}

type ReviewInput struct {
	AuthorID  string
	CaravanID string
	Rating    int
	Comment   string
}
