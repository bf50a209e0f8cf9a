package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/workscheduler/scheduling-backend/internal/database"
	"github.com/workscheduler/scheduling-backend/internal/models"
)

// testBcryptCost keeps hashing fast in tests
const testBcryptCost = 4

// newMockDB wraps a sqlmock connection in the production DB implementation
func newMockDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func newTestUser(id int64, username, email, passwordHash string) *models.AppUser {
	return &models.AppUser{
		UserID:       id,
		Username:     username,
		UserEmail:    email,
		UserPassword: passwordHash,
	}
}
