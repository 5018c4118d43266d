package attachment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestNewCatalog_NilDB(t *testing.T) {
	assert.Nil(t, NewCatalog(nil))
}

func TestCatalog_Record(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	c := NewCatalog(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `attachments`.*ON DUPLICATE KEY UPDATE").
		WithArgs("a/b.png", "url", "https://example.com/b.png", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	sqlMock.ExpectCommit()

	err := c.Record(context.Background(), "a/b.png", SourceURL, "https://example.com/b.png")
	require.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalog_Forget(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	c := NewCatalog(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(regexp.QuoteMeta("DELETE FROM `attachments` WHERE storage_key = ?")).
		WithArgs("a/b.png").
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	require.NoError(t, c.Forget(context.Background(), "a/b.png"))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCatalog_Lookup(t *testing.T) {
	columns := []string{"storage_key", "source", "origin", "created_at", "updated_at"}

	t.Run("Found", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		c := NewCatalog(db)
		now := time.Now()

		sqlMock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `attachments` WHERE storage_key = ?")).
			WillReturnRows(sqlmock.NewRows(columns).AddRow("a/b.png", "upload", "", now, now))

		rec, err := c.Lookup(context.Background(), "a/b.png")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, SourceUpload, rec.Source)
	})

	t.Run("Missing", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		c := NewCatalog(db)

		sqlMock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `attachments` WHERE storage_key = ?")).
			WillReturnRows(sqlmock.NewRows(columns))

		rec, err := c.Lookup(context.Background(), "nope")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}
