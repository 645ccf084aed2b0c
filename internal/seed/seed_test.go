package seed

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"caravanshare/internal/database"
	"caravanshare/internal/models"
	"caravanshare/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturesYAML = `
users:
  - email: host@example.com
    password: host-password
    name: Hannah Host
    role: HOST
    contact_number: "+351 911 111 111"
  - email: guest@example.com
    password: guest-password
    name: Gus Guest
caravans:
  - host_email: host@example.com
    name: Sunny Camper
    description: Two beds and a kitchenette
    location: Lisbon
    price_per_day: 50000
    capacity: 4
    images:
      - https://img.example/sunny.jpg
`

func TestLoadFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixturesYAML), 0o600))

	fixtures, err := Load(path)
	require.NoError(t, err)
	require.Len(t, fixtures.Users, 2)
	require.Len(t, fixtures.Caravans, 1)
	assert.Equal(t, models.RoleHost, fixtures.Users[0].Role)
	require.NotNil(t, fixtures.Users[0].ContactNumber)
	assert.Nil(t, fixtures.Users[1].ContactNumber)
	assert.Equal(t, int64(50000), fixtures.Caravans[0].PricePerDay)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("caravans:\n  - name: Orphan\n"))
	assert.Error(t, err)
}

func TestSeederApplyIsIdempotent(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	defer db.Close()

	fixtures, err := Parse([]byte(fixturesYAML))
	require.NoError(t, err)

	seeder := NewSeeder(service.NewUserService(db, &logger), db, service.NewCaravanService(db, &logger), &logger)
	ctx := context.Background()

	res, err := seeder.Apply(ctx, fixtures)
	require.NoError(t, err)
	assert.Equal(t, Result{UsersCreated: 2, CaravansCreated: 1}, res)

	res, err = seeder.Apply(ctx, fixtures)
	require.NoError(t, err)
	assert.Equal(t, Result{UsersSkipped: 2, CaravansSkipped: 1}, res)

	caravans, err := db.ListCaravans(ctx)
	require.NoError(t, err)
	require.Len(t, caravans, 1)
	assert.Equal(t, "Sunny Camper", caravans[0].Name)
}

func TestSeederRejectsGuestHost(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	defer db.Close()

	fixtures := &Fixtures{
		Users: []UserFixture{{Email: "guest@example.com", Password: "pw", Name: "Guest"}},
		Caravans: []CaravanFixture{{
			HostEmail: "guest@example.com", Name: "Van", Description: "d", Location: "l", PricePerDay: 100, Capacity: 2,
		}},
	}

	seeder := NewSeeder(service.NewUserService(db, &logger), db, service.NewCaravanService(db, &logger), &logger)
	_, err = seeder.Apply(context.Background(), fixtures)
	assert.Error(t, err)
}
