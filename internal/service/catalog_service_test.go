package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newCatalogForTest opens an in-memory database and returns a service backed
// by it. The schema is created by hand because the production migrations use
// postgres defaults sqlite cannot parse.
func newCatalogForTest(t *testing.T) *CatalogService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
		CREATE TABLE educators (
			id text PRIMARY KEY,
			name text NOT NULL,
			email text,
			subject text,
			avatar text DEFAULT '',
			status text DEFAULT 'active',
			join_date datetime,
			created_at datetime,
			updated_at datetime,
			deleted_at datetime
		)`).Error)

	require.NoError(t, db.Exec(`
		CREATE TABLE videos (
			id text PRIMARY KEY,
			educator_id text,
			youtube_id text,
			url text,
			title text,
			status text,
			minutes real DEFAULT 0,
			view_count integer DEFAULT 0,
			engagement real DEFAULT 0,
			created_at datetime,
			updated_at datetime,
			deleted_at datetime
		)`).Error)

	return NewCatalogService(
		repository.NewEducatorRepository(db),
		repository.NewVideoRepository(db),
		nil,
		nil,
	)
}

func TestCatalogService_CreateEducator(t *testing.T) {
	catalog := newCatalogForTest(t)

	educator, err := catalog.CreateEducator(model.CreateEducatorRequest{
		Name:    "Alice Rivera",
		Email:   "alice@edutrack.io",
		Subject: "Mathematics",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Alice Rivera", educator.Name)
	assert.Equal(t, model.EducatorStatusActive, educator.Status)
}

func TestCatalogService_CreateEducator_DuplicateEmail(t *testing.T) {
	catalog := newCatalogForTest(t)

	_, err := catalog.CreateEducator(model.CreateEducatorRequest{
		Name:    "Alice Rivera",
		Email:   "alice@edutrack.io",
		Subject: "Mathematics",
	}, "")
	require.NoError(t, err)

	_, err = catalog.CreateEducator(model.CreateEducatorRequest{
		Name:    "Someone Else",
		Email:   "alice@edutrack.io",
		Subject: "Physics",
	}, "")
	assert.ErrorIs(t, err, ErrEducatorEmailExists)

	educators, err := catalog.ListEducators()
	require.NoError(t, err)
	require.Len(t, educators, 1)
	assert.Equal(t, "Alice Rivera", educators[0].Name)
}
