package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/database"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWriteTxRollsBackOnError(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.WriteTx(ctx, db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.User{ID: "u1", Name: "Jenny"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWriteTxCommits(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, database.WriteTx(ctx, db, func(tx *gorm.DB) error {
		return tx.Create(&models.User{ID: "u1", Name: "Jenny"}).Error
	}))

	var users []models.User
	require.NoError(t, database.ReadTx(ctx, db, func(tx *gorm.DB) error {
		return tx.Find(&users).Error
	}))
	require.Len(t, users, 1)
	assert.Equal(t, "Jenny", users[0].Name)
}

func TestWriteTxReleasesConnectionAfterPanic(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = database.WriteTx(ctx, db, func(tx *gorm.DB) error {
			tx.Create(&models.User{ID: "u1"})
			panic("tx body failed")
		})
	})

	// the single pooled connection must be usable again
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOpenReportIndexIsPartial(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, db.Create(&models.Report{ID: "r1", ResourceID: "p1", ResourceType: models.NodePost, Closed: true}).Error)
	require.NoError(t, db.Create(&models.Report{ID: "r2", ResourceID: "p1", ResourceType: models.NodePost}).Error)
	assert.Error(t, db.Create(&models.Report{ID: "r3", ResourceID: "p1", ResourceType: models.NodePost}).Error,
		"a second open report for the same resource must be rejected")
}
