package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var shiftColumns = []string{"shift_id", "location_id", "start_time", "end_time", "status"}

func TestCreateShiftHandler(t *testing.T) {
	shiftRequest := map[string]interface{}{
		"start_time": "2026-09-07T09:00:00Z",
		"end_time":   "2026-09-07T17:00:00Z",
	}

	t.Run("Requires Authentication", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.doJSON(t, http.MethodPost, "/api/v1/locations/3/shifts", shiftRequest, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Invalid Location ID", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.doJSON(t, http.MethodPost, "/api/v1/locations/abc/shifts", shiftRequest,
			env.accessToken(t, 7, "manager@acme.test"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown Location", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(locationColumns))

		w := env.doJSON(t, http.MethodPost, "/api/v1/locations/99/shifts", shiftRequest,
			env.accessToken(t, 7, "manager@acme.test"))

		assert.Equal(t, http.StatusNotFound, w.Code)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Plain Employee Forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(locationColumns).
				AddRow(int64(3), int64(2), "Head Office", nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(8), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns).
				AddRow(int64(22), int64(8), int64(2), nil, "Cashier", "active", time.Now(), nil))

		w := env.doJSON(t, http.MethodPost, "/api/v1/locations/3/shifts", shiftRequest,
			env.accessToken(t, 8, "employee@acme.test"))

		assert.Equal(t, http.StatusForbidden, w.Code)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Manager Creates Shift", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(locationColumns).
				AddRow(int64(3), int64(2), "Head Office", nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(7), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns).
				AddRow(int64(21), int64(7), int64(2), int64(3), "Manager", "active", time.Now(), nil))
		env.mock.ExpectQuery(`INSERT INTO shift`).
			WithArgs(int64(3), sqlmock.AnyArg(), sqlmock.AnyArg(), "draft").
			WillReturnRows(sqlmock.NewRows([]string{"shift_id"}).AddRow(int64(40)))

		w := env.doJSON(t, http.MethodPost, "/api/v1/locations/3/shifts", shiftRequest,
			env.accessToken(t, 7, "manager@acme.test"))

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(40), body["shift_id"])
		assert.Equal(t, "draft", body["status"])

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Missing Body Fields", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.doJSON(t, http.MethodPost, "/api/v1/locations/3/shifts", map[string]interface{}{
			"start_time": "2026-09-07T09:00:00Z",
		}, env.accessToken(t, 7, "manager@acme.test"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListShiftsHandler(t *testing.T) {
	t.Run("Any Employee Can List", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(locationColumns).
				AddRow(int64(3), int64(2), "Head Office", nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(8), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns).
				AddRow(int64(22), int64(8), int64(2), nil, "Cashier", "active", time.Now(), nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM shift`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(shiftColumns).
				AddRow(int64(40), int64(3), time.Now(), time.Now().Add(8*time.Hour), "published").
				AddRow(int64(41), int64(3), time.Now().Add(24*time.Hour), time.Now().Add(32*time.Hour), "draft"))

		w := env.doJSON(t, http.MethodGet, "/api/v1/locations/3/shifts", nil,
			env.accessToken(t, 8, "employee@acme.test"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		shifts := body["shifts"].([]interface{})
		assert.Len(t, shifts, 2)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Outsider Forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(locationColumns).
				AddRow(int64(3), int64(2), "Head Office", nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(9), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns))

		w := env.doJSON(t, http.MethodGet, "/api/v1/locations/3/shifts", nil,
			env.accessToken(t, 9, "outsider@example.com"))

		assert.Equal(t, http.StatusForbidden, w.Code)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}

func TestAssignShiftHandler(t *testing.T) {
	assignRequest := map[string]interface{}{
		"user_id": 8,
	}

	expectAssignmentChecks := func(env *testEnv) {
		env.mock.ExpectQuery(`SELECT (.+) FROM shift`).
			WithArgs(int64(40)).
			WillReturnRows(sqlmock.NewRows(shiftColumns).
				AddRow(int64(40), int64(3), time.Now(), time.Now().Add(8*time.Hour), "published"))
		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(locationColumns).
				AddRow(int64(3), int64(2), "Head Office", nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(7), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns).
				AddRow(int64(21), int64(7), int64(2), int64(3), "Manager", "active", time.Now(), nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM app_user`).
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(int64(8), "employee", "employee@acme.test", "hash", true, nil))
	}

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)

		expectAssignmentChecks(env)
		env.mock.ExpectExec(`INSERT INTO shift_assignment`).
			WithArgs(int64(40), int64(8), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		w := env.doJSON(t, http.MethodPost, "/api/v1/shifts/40/assignments", assignRequest,
			env.accessToken(t, 7, "manager@acme.test"))

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(40), body["shift_id"])
		assert.Equal(t, float64(8), body["user_id"])

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Already Assigned", func(t *testing.T) {
		env := newTestEnv(t)

		expectAssignmentChecks(env)
		env.mock.ExpectExec(`INSERT INTO shift_assignment`).
			WithArgs(int64(40), int64(8), sqlmock.AnyArg()).
			WillReturnError(newUniqueViolation())

		w := env.doJSON(t, http.MethodPost, "/api/v1/shifts/40/assignments", assignRequest,
			env.accessToken(t, 7, "manager@acme.test"))

		assert.Equal(t, http.StatusConflict, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "already_assigned", body["error"])

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Unknown Shift", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM shift`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(shiftColumns))

		w := env.doJSON(t, http.MethodPost, "/api/v1/shifts/99/assignments", assignRequest,
			env.accessToken(t, 7, "manager@acme.test"))

		assert.Equal(t, http.StatusNotFound, w.Code)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Unknown Assignee", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM shift`).
			WithArgs(int64(40)).
			WillReturnRows(sqlmock.NewRows(shiftColumns).
				AddRow(int64(40), int64(3), time.Now(), time.Now().Add(8*time.Hour), "published"))
		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(locationColumns).
				AddRow(int64(3), int64(2), "Head Office", nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(7), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns).
				AddRow(int64(21), int64(7), int64(2), int64(3), "Manager", "active", time.Now(), nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM app_user`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(userColumns))

		w := env.doJSON(t, http.MethodPost, "/api/v1/shifts/40/assignments", map[string]interface{}{
			"user_id": 99,
		}, env.accessToken(t, 7, "manager@acme.test"))

		assert.Equal(t, http.StatusNotFound, w.Code)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}

func TestCreateAvailabilityHandler(t *testing.T) {
	availabilityRequest := map[string]interface{}{
		"location_id": 3,
		"day_of_week": "mon",
		"start_time":  "09:00",
		"end_time":    "17:00",
	}

	t.Run("Invalid Day Of Week", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.doJSON(t, http.MethodPost, "/api/v1/availability", map[string]interface{}{
			"location_id": 3,
			"day_of_week": "monday",
			"start_time":  "09:00",
			"end_time":    "17:00",
		}, env.accessToken(t, 8, "employee@acme.test"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "validation_error", body["error"])

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Outsider Forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(locationColumns).
				AddRow(int64(3), int64(2), "Head Office", nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(9), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns))

		w := env.doJSON(t, http.MethodPost, "/api/v1/availability", availabilityRequest,
			env.accessToken(t, 9, "outsider@example.com"))

		assert.Equal(t, http.StatusForbidden, w.Code)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})

	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM location`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(locationColumns).
				AddRow(int64(3), int64(2), "Head Office", nil))
		env.mock.ExpectQuery(`SELECT (.+) FROM employment`).
			WithArgs(int64(8), int64(2), "active").
			WillReturnRows(sqlmock.NewRows(employmentColumns).
				AddRow(int64(22), int64(8), int64(2), nil, "Cashier", "active", time.Now(), nil))
		env.mock.ExpectQuery(`INSERT INTO availability`).
			WithArgs(int64(8), int64(3), "mon", "09:00", "17:00").
			WillReturnRows(sqlmock.NewRows([]string{"availability_id"}).AddRow(int64(60)))

		w := env.doJSON(t, http.MethodPost, "/api/v1/availability", availabilityRequest,
			env.accessToken(t, 8, "employee@acme.test"))

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(60), body["availability_id"])
		assert.Equal(t, "mon", body["day_of_week"])

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}

func TestListAvailabilityHandler(t *testing.T) {
	t.Run("Own Windows Only", func(t *testing.T) {
		env := newTestEnv(t)

		env.mock.ExpectQuery(`SELECT (.+) FROM availability`).
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows(
				[]string{"availability_id", "user_id", "location_id", "day_of_week", "start_time", "end_time"}).
				AddRow(int64(60), int64(8), int64(3), "mon", "09:00:00", "17:00:00"))

		w := env.doJSON(t, http.MethodGet, "/api/v1/availability", nil,
			env.accessToken(t, 8, "employee@acme.test"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		windows := body["availability"].([]interface{})
		assert.Len(t, windows, 1)

		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}
