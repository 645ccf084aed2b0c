package service

import (
	"context"
	"errors"
	"strings"

	"caravanshare/internal/database"
	"caravanshare/internal/domain"
	"caravanshare/internal/logging"
	"caravanshare/internal/models"

	"github.com/rs/zerolog"
)

// caravanStore is the part of the repository the catalog needs.
type caravanStore interface {
	domain.UserRepository
	domain.CaravanRepository
}

type CaravanService struct {
	repo   caravanStore
	logger *zerolog.Logger
}

func NewCaravanService(repo caravanStore, logger *zerolog.Logger) *CaravanService {
	return &CaravanService{
		repo:   repo,
		logger: logging.Component(logger, "caravans"),
	}
}

func validateCaravanInput(input *domain.CaravanInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)

	if input.Name == "" || input.Description == "" || input.Location == "" {
		return domain.Validation("name, description and location are required")
	}
	if input.PricePerDay <= 0 {
		return domain.Validation("pricePerDay must be greater than 0")
	}
	if input.Capacity <= 0 {
		return domain.Validation("capacity must be greater than 0")
	}
	for _, image := range input.Images {
		if strings.TrimSpace(image) == "" {
			return domain.Validation("images must not contain empty entries")
		}
	}
	return nil
}

func (s *CaravanService) ListCaravans(ctx context.Context) ([]*models.Caravan, error) {
	caravans, err := s.repo.ListCaravans(ctx)
	if err != nil {
		return nil, translate(err, "caravan")
	}
	return caravans, nil
}

func (s *CaravanService) ListCaravansByHost(ctx context.Context, hostID string) ([]*models.Caravan, error) {
	caravans, err := s.repo.ListCaravansByHost(ctx, hostID)
	if err != nil {
		return nil, translate(err, "caravan")
	}
	return caravans, nil
}

func (s *CaravanService) GetCaravan(ctx context.Context, id string) (*models.CaravanDetail, error) {
	detail, err := s.repo.GetCaravanDetail(ctx, id)
	if err != nil {
		return nil, translate(err, "caravan")
	}
	return detail, nil
}

func (s *CaravanService) CreateCaravan(ctx context.Context, hostID string, input domain.CaravanInput) (*models.Caravan, error) {
	if strings.TrimSpace(hostID) == "" {
		return nil, domain.Validation("hostId is required")
	}
	if err := validateCaravanInput(&input); err != nil {
		return nil, err
	}

	host, err := s.repo.GetUserByID(ctx, hostID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, translate(err, "user")
	}
	if host == nil || !host.IsHost() {
		return nil, domain.DomainRule("user is not a host")
	}

	caravan := &models.Caravan{
		HostID:      host.ID,
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		PricePerDay: input.PricePerDay,
		Capacity:    input.Capacity,
		Images:      input.Images,
	}
	if err := s.repo.CreateCaravan(ctx, caravan); err != nil {
		return nil, translate(err, "caravan")
	}

	s.logger.Info().Str("caravan_id", caravan.ID).Str("host_id", host.ID).Msg("caravan created")
	return caravan, nil
}

// authorize checks a claimed actor against the caravan's host. An empty actorID skips the check.
func authorize(caravan *models.Caravan, actorID string) error {
	if actorID != "" && actorID != caravan.HostID {
		return domain.Forbidden("only the host of this caravan can modify it")
	}
	return nil
}

// UpdateCaravan overwrites every mutable attribute; concurrent updates are last-write-wins.
func (s *CaravanService) UpdateCaravan(ctx context.Context, id, actorID string, input domain.CaravanInput) (*models.Caravan, error) {
	if err := validateCaravanInput(&input); err != nil {
		return nil, err
	}

	caravan, err := s.repo.GetCaravan(ctx, id)
	if err != nil {
		return nil, translate(err, "caravan")
	}
	if err := authorize(caravan, actorID); err != nil {
		return nil, err
	}

	caravan.Name = input.Name
	caravan.Description = input.Description
	caravan.Location = input.Location
	caravan.PricePerDay = input.PricePerDay
	caravan.Capacity = input.Capacity
	caravan.Images = input.Images
	if caravan.Images == nil {
		caravan.Images = []string{}
	}

	if err := s.repo.UpdateCaravan(ctx, caravan); err != nil {
		return nil, translate(err, "caravan")
	}
	return caravan, nil
}

func (s *CaravanService) DeleteCaravan(ctx context.Context, id, actorID string) error {
	if actorID != "" {
		caravan, err := s.repo.GetCaravan(ctx, id)
		if err != nil {
			return translate(err, "caravan")
		}
		if err := authorize(caravan, actorID); err != nil {
			return err
		}
	}

	if err := s.repo.DeleteCaravan(ctx, id); err != nil {
		return translate(err, "caravan")
	}

	s.logger.Info().Str("caravan_id", id).Msg("caravan deleted")
	return nil
}
