package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("schema present", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WithArgs(sentinelTable).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.NoError(t, EnsureMigrated(ctx, db, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("runs every step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WithArgs(sentinelTable).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		for range steps {
			mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
		}

		assert.NoError(t, EnsureMigrated(ctx, db, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("step failure stops", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))

		err = EnsureMigrated(ctx, db, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create_table_users")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel check failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").WillReturnError(errors.New("conn refused"))

		err = EnsureMigrated(ctx, db, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sentinel")
	})
}
