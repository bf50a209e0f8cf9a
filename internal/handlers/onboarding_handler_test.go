package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInviteHandler(t *testing.T) {
	inviteRequest := map[string]interface{}{
		"comp_id":     2,
		"email":       "new.hire@example.com",
		"location_id": 3,
		"position":    "Cashier",
	}

	t.Run("Requires Authentication", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.doJSON(t, http.MethodPost, "/api/v1/onboarding/invite", inviteRequest, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Plain Employee Forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(8), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns).
				AddRow(int64(22), int64(8), int64(2), nil, "Cashier", "active", time.Now(), nil))

		w := env.doJSON(t, http.MethodPost, "/api/v1/onboarding/invite", inviteRequest,
			env.accessToken(t, 8, "employee@acme.test"))

		assert.Equal(t, http.StatusForbidden, w.Code)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("No Employment Forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(9), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns))

		w := env.doJSON(t, http.MethodPost, "/api/v1/onboarding/invite", inviteRequest,
			env.accessToken(t, 9, "outsider@example.com"))

		assert.Equal(t, http.StatusForbidden, w.Code)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Manager Creates Invite", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(7), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns).
				AddRow(int64(21), int64(7), int64(2), int64(3), "Manager", "active", time.Now(), nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM company`).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(companyColumns).
				AddRow(int64(2), "Acme", "info@acme.test", nil, true))
		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(locationColumns).
				AddRow(int64(3), int64(2), "Head Office", nil))
		env.mock.ExpectQuery(`INSERT INTO onboarding_invite`).
			WithArgs(int64(2), sqlmock.AnyArg(), "new.hire@example.com", "pending").
			WillReturnRows(sqlmock.NewRows([]string{"form_id"}).AddRow(int64(15)))
		expectAuditInsert(env.mock)

		w := env.doJSON(t, http.MethodPost, "/api/v1/onboarding/invite", inviteRequest,
			env.accessToken(t, 7, "manager@acme.test"))

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(15), body["form_id"])
		assert.Equal(t, "pending", body["status"])

		// The returned token must prevalidate
		token := body["invite_token"].(string)
		claims, err := env.jwtService.ValidateInviteToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(15), claims.FormID)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Missing Body Fields", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.doJSON(t, http.MethodPost, "/api/v1/onboarding/invite", map[string]interface{}{
			"email": "new.hire@example.com",
		}, env.accessToken(t, 7, "manager@acme.test"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPrevalidateHandler(t *testing.T) {
	t.Run("Missing Token", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.doJSON(t, http.MethodGet, "/api/v1/onboarding/validate", nil, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.doJSON(t, http.MethodGet, "/api/v1/onboarding/validate?token=garbage", nil, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Valid Token", func(t *testing.T) {
		env := newTestEnv(t)
		locationID := int64(3)

		token, err := env.jwtService.GenerateInviteToken(15, 2, &locationID, "new.hire@example.com", "Cashier", time.Hour)
		require.NoError(t, err)

		env.mock.ExpectQuery(`SELECT (.+) FROM company`).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(companyColumns).
				AddRow(int64(2), "Acme", "info@acme.test", nil, true))
		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(locationColumns).
				AddRow(int64(3), int64(2), "Head Office", nil))

		w := env.doJSON(t, http.MethodGet, "/api/v1/onboarding/validate?token="+token, nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "new.hire@example.com", body["email"])
		assert.Equal(t, "Cashier", body["position"])

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}

func TestAcceptInviteHandler(t *testing.T) {
	t.Run("Missing Fields", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.doJSON(t, http.MethodPost, "/api/v1/onboarding/accept", map[string]string{
			"token":    "something",
			"username": "newhire",
		}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)

		token, err := env.jwtService.GenerateInviteToken(15, 2, nil, "new.hire@example.com", "Cashier", time.Hour)
		require.NoError(t, err)

		env.mock.ExpectQuery(`SELECT (.+) FROM onboarding_invite`).
			WithArgs(int64(15)).
			WillReturnRows(sqlmock.NewRows([]string{"form_id", "comp_id", "location_id", "email", "status"}).
				AddRow(int64(15), int64(2), nil, "new.hire@example.com", "pending"))
		env.mock.ExpectQuery(`SELECT (.+) FROM app_user`).
			WithArgs("new.hire@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns))
		env.mock.ExpectQuery(`INSERT INTO app_user`).
			WithArgs("newhire", "new.hire@example.com", sqlmock.AnyArg(), false, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))
		env.mock.ExpectBegin()
		env.mock.ExpectExec(`INSERT INTO employment`).
			WithArgs(int64(7), int64(2), sqlmock.AnyArg(), "Cashier", "active", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		env.mock.ExpectExec(`UPDATE onboarding_invite`).
			WithArgs("accepted", int64(15)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		env.mock.ExpectCommit()
		expectAuditInsert(env.mock)

		w := env.doJSON(t, http.MethodPost, "/api/v1/onboarding/accept", map[string]string{
			"token":            token,
			"username":         "newhire",
			"password":         "s3cret",
			"confirm_password": "s3cret",
		}, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(7), body["user_id"])
		assert.Equal(t, float64(2), body["comp_id"])
		assert.Equal(t, "accepted", body["invite_status"])

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Inactive Invite", func(t *testing.T) {
		env := newTestEnv(t)

		token, err := env.jwtService.GenerateInviteToken(15, 2, nil, "new.hire@example.com", "Cashier", time.Hour)
		require.NoError(t, err)

		env.mock.ExpectQuery(`SELECT (.+) FROM onboarding_invite`).
			WithArgs(int64(15)).
			WillReturnRows(sqlmock.NewRows([]string{"form_id", "comp_id", "location_id", "email", "status"}).
				AddRow(int64(15), int64(2), nil, "new.hire@example.com", "accepted"))

		w := env.doJSON(t, http.MethodPost, "/api/v1/onboarding/accept", map[string]string{
			"token":            token,
			"username":         "newhire",
			"password":         "s3cret",
			"confirm_password": "s3cret",
		}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}
