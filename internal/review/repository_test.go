// File: internal/review/repository_test.go
package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Review{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func addReview(t *testing.T, repo Repository, parkingID, userID uuid.UUID, rating int) *Review {
	t.Helper()
	r := &Review{ParkingID: parkingID, UserID: userID, Rating: rating}
	r.ID = uuid.New()
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestGORMRepository_Aggregate(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	parkingID := uuid.New()

	// No reviews yet: zero average, zero count.
	avg, count, err := repo.Aggregate(context.Background(), parkingID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, 0, count)

	addReview(t, repo, parkingID, uuid.New(), 4)
	addReview(t, repo, parkingID, uuid.New(), 5)
	addReview(t, repo, parkingID, uuid.New(), 3)
	addReview(t, repo, uuid.New(), uuid.New(), 1) // different listing

	avg, count, err = repo.Aggregate(context.Background(), parkingID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 3, count)
}

func TestGORMRepository_FindByUserAndParking(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	parkingID, userID := uuid.New(), uuid.New()
	created := addReview(t, repo, parkingID, userID, 5)

	found, err := repo.FindByUserAndParking(context.Background(), userID, parkingID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByUserAndParking(context.Background(), uuid.New(), parkingID)
	require.Error(t, err)
}

func TestGORMRepository_ParkingIDsWithReviews(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	a, b := uuid.New(), uuid.New()

	addReview(t, repo, a, uuid.New(), 4)
	addReview(t, repo, a, uuid.New(), 2)
	addReview(t, repo, b, uuid.New(), 5)

	ids, err := repo.ParkingIDsWithReviews(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, ids)
}

func TestGORMRepository_DeleteMissingIsNotFound(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))

	err := repo.Delete(context.Background(), uuid.New())
	require.Error(t, err)
}
