//go:build integration

package repository

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csemotors/web/internal/config"
	"csemotors/web/internal/database"
	"csemotors/web/internal/models"
)

// Run with: CSE_TEST_POSTGRES_DSN=postgres://... go test -tags integration ./internal/repository/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("CSE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CSE_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, config.PostgresConfig{DSN: dsn, MaxOpen: 4, MaxIdle: 1, ConnMaxLifetime: time.Minute})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))
	return pool
}

func unique(prefix string) string {
	return prefix + strconv.FormatInt(time.Now().UnixNano(), 36)
}

func TestPostgresAccounts(t *testing.T) {
	accounts := NewAccountRepository(testPool(t))
	ctx := context.Background()
	email := unique("jane") + "@x.com"

	created, err := accounts.Create(ctx, models.Account{FirstName: "Jane", LastName: "Doe", Email: email, PasswordHash: []byte("hash"), Type: models.AccountTypeAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.AccountTypeClient, created.Type)

	_, err = accounts.Create(ctx, models.Account{FirstName: "J", LastName: "D", Email: email, PasswordHash: []byte("hash")})
	assert.ErrorIs(t, err, ErrDuplicate)

	exists, err := accounts.EmailExists(ctx, email)
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := accounts.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	require.NoError(t, accounts.UpdatePassword(ctx, created.ID, []byte("new-hash")))
	assert.ErrorIs(t, accounts.UpdatePassword(ctx, 2147483000, []byte("x")), ErrAccountNotFound)

	_, err = accounts.GetByID(ctx, 2147483000)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestPostgresInventoryAndReviews(t *testing.T) {
	pool := testPool(t)
	classifications := NewClassificationRepository(pool)
	vehicles := NewVehicleRepository(pool)
	reviews := NewReviewRepository(pool)
	accounts := NewAccountRepository(pool)
	ctx := context.Background()

	name := unique("Electric")
	class, err := classifications.Create(ctx, name)
	require.NoError(t, err)
	_, err = classifications.Create(ctx, name)
	assert.ErrorIs(t, err, ErrDuplicate)

	year, miles, price := 2023, 12, 79990.0
	vehicle := models.Vehicle{
		Make: "Tesla", Model: "Model S", Description: "Quiet.", Image: "/a.png", Thumbnail: "/a-tn.png",
		Year: &year, Miles: &miles, Price: &price, Color: "Red", ClassificationID: 2147483000,
	}
	_, err = vehicles.Create(ctx, vehicle)
	assert.ErrorIs(t, err, ErrClassificationNotFound)

	vehicle.ClassificationID = class.ID
	vehicle, err = vehicles.Create(ctx, vehicle)
	require.NoError(t, err)

	loaded, err := vehicles.GetByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, name, loaded.ClassificationName)
	require.NotNil(t, loaded.Price)
	assert.InDelta(t, price, *loaded.Price, 0.001)

	listed, err := vehicles.ListByClassification(ctx, class.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	loaded.Color = "Blue"
	rows, err := vehicles.Update(ctx, loaded)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	loaded.ClassificationID = 2147483000
	_, err = vehicles.Update(ctx, loaded)
	assert.ErrorIs(t, err, ErrClassificationNotFound)

	author, err := accounts.Create(ctx, models.Account{FirstName: "Jane", LastName: "Doe", Email: unique("rev") + "@x.com", PasswordHash: []byte("h")})
	require.NoError(t, err)

	review, err := reviews.Create(ctx, models.Review{Text: "Fast.", Rating: 5, VehicleID: vehicle.ID, AccountID: author.ID})
	require.NoError(t, err)

	byVehicle, err := reviews.ListByVehicle(ctx, vehicle.ID)
	require.NoError(t, err)
	require.Len(t, byVehicle, 1)
	assert.Equal(t, "Jane", byVehicle[0].AuthorFirstName)

	byAccount, err := reviews.ListByAccount(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, byAccount, 1)
	assert.Equal(t, "Tesla Model S", byAccount[0].VehicleName())

	time.Sleep(20 * time.Millisecond)
	rows, err = reviews.Update(ctx, review.ID, "Very fast.", 4)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	updated, err := reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "Very fast.", updated.Text)
	assert.True(t, updated.Date.After(review.Date), "review date refreshed on edit")

	rows, err = vehicles.Delete(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	rows, err = vehicles.Delete(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)

	_, err = reviews.GetByID(ctx, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	_, err = vehicles.GetByID(ctx, vehicle.ID)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}
