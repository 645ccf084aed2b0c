package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"caravanshare/internal/domain"
	"caravanshare/internal/logging"
	"caravanshare/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

// Fixtures is the demo data file layout.
type Fixtures struct {
	Users    []UserFixture    `yaml:"users"`
	Caravans []CaravanFixture `yaml:"caravans"`
}

type UserFixture struct {
	Email          string  `yaml:"email"`
	Password       string  `yaml:"password"`
	Name           string  `yaml:"name"`
	Role           string  `yaml:"role"`
	ContactNumber  *string `yaml:"contact_number"`
	ProfilePicture *string `yaml:"profile_picture"`
}

// CaravanFixture ссылается на хоста по email
type CaravanFixture struct {
	HostEmail   string   `yaml:"host_email"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Location    string   `yaml:"location"`
	PricePerDay int64    `yaml:"price_per_day"`
	Capacity    int      `yaml:"capacity"`
	Images      []string `yaml:"images"`
}

type Result struct {
	UsersCreated    int
	UsersSkipped    int
	CaravansCreated int
	CaravansSkipped int
}

type userFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Load читает файл фикстур
func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixtures, error) {
	var fixtures Fixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, c := range fixtures.Caravans {
		if strings.TrimSpace(c.HostEmail) == "" {
			return nil, fmt.Errorf("caravan #%d (%s): host_email is required", i+1, c.Name)
		}
	}
	return &fixtures, nil
}

// Seeder creates fixtures through the services so the usual validation applies.
// Repeated runs skip users and caravans that already exist.
type Seeder struct {
	users    domain.UserService
	finder   userFinder
	caravans domain.CaravanService
	logger   *zerolog.Logger
}

func NewSeeder(users domain.UserService, finder userFinder, caravans domain.CaravanService, logger *zerolog.Logger) *Seeder {
	return &Seeder{
		users:    users,
		finder:   finder,
		caravans: caravans,
		logger:   logging.Component(logger, "seed"),
	}
}

func (s *Seeder) Apply(ctx context.Context, fixtures *Fixtures) (Result, error) {
	var res Result
	if fixtures == nil {
		return res, nil
	}

	for _, u := range fixtures.Users {
		_, err := s.users.Signup(ctx, domain.SignupInput{
			Email:          u.Email,
			Password:       u.Password,
			Name:           u.Name,
			ContactNumber:  u.ContactNumber,
			ProfilePicture: u.ProfilePicture,
			Role:           u.Role,
		})
		switch {
		case err == nil:
			res.UsersCreated++
		case errors.Is(err, domain.ErrConflict):
			res.UsersSkipped++
		default:
			return res, fmt.Errorf("user %s: %w", u.Email, err)
		}
	}

	for _, c := range fixtures.Caravans {
		host, err := s.finder.GetUserByEmail(ctx, c.HostEmail)
		if err != nil {
			return res, fmt.Errorf("caravan %s: host %s: %w", c.Name, c.HostEmail, err)
		}

		existing, err := s.caravans.ListCaravansByHost(ctx, host.ID)
		if err != nil {
			return res, fmt.Errorf("caravan %s: %w", c.Name, err)
		}
		if hasCaravan(existing, c.Name) {
			res.CaravansSkipped++
			continue
		}

		if _, err := s.caravans.CreateCaravan(ctx, host.ID, domain.CaravanInput{
			Name:        c.Name,
			Description: c.Description,
			Location:    c.Location,
			PricePerDay: c.PricePerDay,
			Capacity:    c.Capacity,
			Images:      c.Images,
		}); err != nil {
			return res, fmt.Errorf("caravan %s: %w", c.Name, err)
		}
		res.CaravansCreated++
	}

	s.logger.Info().
		Int("users_created", res.UsersCreated).
		Int("users_skipped", res.UsersSkipped).
		Int("caravans_created", res.CaravansCreated).
		Int("caravans_skipped", res.CaravansSkipped).
		Msg("fixtures applied")
	return res, nil
}

func hasCaravan(caravans []*models.Caravan, name string) bool {
	for _, c := range caravans {
		if c.Name == name {
			return true
		}
	}
	return false
}
