// File: internal/favorite/repository_test.go
package favorite

import (
	"context"
	"testing"
	"time"

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
	require.NoError(t, db.AutoMigrate(&Favorite{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func addFavorite(t *testing.T, repo Repository, userID, parkingID uuid.UUID, at time.Time) {
	t.Helper()
	f := &Favorite{ID: uuid.New(), UserID: userID, ParkingID: parkingID, CreatedAt: at}
	require.NoError(t, repo.Create(context.Background(), f))
}

func TestGORMRepository_CreateAndExists(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	userID, parkingID := uuid.New(), uuid.New()

	exists, err := repo.Exists(context.Background(), userID, parkingID)
	require.NoError(t, err)
	assert.False(t, exists)

	addFavorite(t, repo, userID, parkingID, time.Now())

	exists, err = repo.Exists(context.Background(), userID, parkingID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGORMRepository_DuplicateCreateIsIdempotent(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	userID, parkingID := uuid.New(), uuid.New()

	addFavorite(t, repo, userID, parkingID, time.Now())
	// The unique pair constraint swallows the duplicate.
	err := repo.Create(context.Background(), &Favorite{ID: uuid.New(), UserID: userID, ParkingID: parkingID})
	require.NoError(t, err)

	ids, err := repo.FindParkingIDsByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestGORMRepository_DeleteReportsWhetherRowExisted(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	userID, parkingID := uuid.New(), uuid.New()

	removed, err := repo.Delete(context.Background(), userID, parkingID)
	require.NoError(t, err)
	assert.False(t, removed)

	addFavorite(t, repo, userID, parkingID, time.Now())

	removed, err = repo.Delete(context.Background(), userID, parkingID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestGORMRepository_FindParkingIDsMostRecentFirst(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	userID := uuid.New()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first := uuid.New()
	second := uuid.New()
	third := uuid.New()
	addFavorite(t, repo, userID, first, base)
	addFavorite(t, repo, userID, second, base.Add(time.Hour))
	addFavorite(t, repo, userID, third, base.Add(2*time.Hour))
	addFavorite(t, repo, uuid.New(), uuid.New(), base) // someone else's

	ids, err := repo.FindParkingIDsByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{third, second, first}, ids)
}
