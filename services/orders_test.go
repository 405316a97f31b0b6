package services

import (
	"testing"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserOrder_OnlyOwnerSeesOrder(t *testing.T) {
	db := testDB(t)
	owner := CreateTestUser(t, db, "Lata")
	stranger := CreateTestUser(t, db, "Moti")
	order := CreateTestOrder(t, db, &owner.ID, models.OrderStatusPending, 250)
	guest := CreateTestOrder(t, db, nil, models.OrderStatusPending, 250)

	found, err := GetUserOrder(db, owner.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// someone else's order looks the same as a missing one
	_, err = GetUserOrder(db, stranger.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, utils.KindNotFound, utils.Kind(err))

	_, err = GetUserOrder(db, owner.ID, guest.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = GetUserOrder(db, owner.ID, 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
