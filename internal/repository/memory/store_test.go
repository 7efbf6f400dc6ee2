package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csemotors/web/internal/models"
	"csemotors/web/internal/repository"
)

func TestAccountsRejectDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	accounts := New().Accounts()

	created, err := accounts.Create(ctx, models.Account{FirstName: "Jane", Email: "jane@x.com", Type: models.AccountTypeAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.AccountTypeClient, created.Type, "new accounts always start as Client")

	_, err = accounts.Create(ctx, models.Account{FirstName: "Other", Email: "jane@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestVehiclesCarryClassificationName(t *testing.T) {
	ctx := context.Background()
	store := NewSeeded()

	classes, err := store.Classifications().List(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 5)
	assert.Equal(t, "Custom", classes[0].Name)

	v, err := store.Vehicles().Create(ctx, models.Vehicle{Make: "Jeep", Model: "Wrangler", ClassificationID: classes[3].ID})
	require.NoError(t, err)

	list, err := store.Vehicles().ListByClassification(ctx, classes[3].ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, v.ID, list[0].ID)
	assert.Equal(t, classes[3].Name, list[0].ClassificationName)
}

func TestDeleteVehicleRemovesItsReviews(t *testing.T) {
	ctx := context.Background()
	store := NewSeeded()
	classes, _ := store.Classifications().List(ctx)

	account, err := store.Accounts().Create(ctx, models.Account{FirstName: "Jane", Email: "jane@x.com"})
	require.NoError(t, err)
	v, err := store.Vehicles().Create(ctx, models.Vehicle{Make: "Ford", Model: "Focus", ClassificationID: classes[0].ID})
	require.NoError(t, err)
	review, err := store.Reviews().Create(ctx, models.Review{Text: "fine", Rating: 4, VehicleID: v.ID, AccountID: account.ID})
	require.NoError(t, err)

	affected, err := store.Vehicles().Delete(ctx, v.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	_, err = store.Reviews().GetByID(ctx, review.ID)
	assert.ErrorIs(t, err, repository.ErrReviewNotFound)

	affected, err = store.Vehicles().Delete(ctx, v.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
