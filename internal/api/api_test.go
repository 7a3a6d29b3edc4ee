package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/study_planner/internal/auth"
	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/Freeeeeet/study_planner/internal/service"
)

var fixedNow = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

type fakeUsers struct{}

func (fakeUsers) SignUp(_ context.Context, name, email, _ string) (*service.AuthResult, error) {
	if email == "taken@example.com" {
		return nil, service.ErrEmailTaken
	}
	return &service.AuthResult{User: &model.User{ID: 1, Name: name, Email: &email}, Token: "tok"}, nil
}

func (fakeUsers) Login(_ context.Context, email, password string) (*service.AuthResult, error) {
	if password != "secret1" {
		return nil, service.ErrInvalidCredentials
	}
	return &service.AuthResult{User: &model.User{ID: 1, Name: "Ana", Email: &email}, Token: "tok"}, nil
}

type fakeSubjects struct{}

func (fakeSubjects) Create(_ context.Context, userID int64, in service.SubjectInput) (*model.Subject, error) {
	return &model.Subject{ID: 5, UserID: userID, Name: *in.Name, Color: model.DefaultSubjectColor}, nil
}

func (fakeSubjects) List(context.Context, int64) ([]*model.Subject, error) {
	return []*model.Subject{}, nil
}

func (fakeSubjects) Update(_ context.Context, _, _ int64, _ service.SubjectInput) (*model.Subject, error) {
	return nil, service.ErrNotFound
}

func (fakeSubjects) Delete(context.Context, int64, int64) error { return nil }

type fakeTasks struct{}

func (fakeTasks) Create(_ context.Context, userID int64, in service.TaskInput) (*model.Task, error) {
	return &model.Task{ID: 1, UserID: userID, Title: *in.Title}, nil
}

func (fakeTasks) List(_ context.Context, _ int64, f service.TaskListFilter) ([]*model.Task, error) {
	if f.Status == "boom" {
		return nil, errors.New("connection reset")
	}
	return []*model.Task{}, nil
}

func (fakeTasks) Update(context.Context, int64, int64, service.TaskInput) (*model.Task, error) {
	return nil, service.ErrNotFound
}

func (fakeTasks) Complete(_ context.Context, userID, id int64) (*model.Task, error) {
	return &model.Task{ID: id, UserID: userID, Completed: true, Status: model.TaskStatusCompleted}, nil
}

func (fakeTasks) Delete(context.Context, int64, int64) error { return service.ErrNotFound }

func (fakeTasks) Stats(context.Context, int64) (*model.TaskStats, error) {
	return &model.TaskStats{Total: 2, Completed: 1, CompletionRate: 0.5}, nil
}

type fakeTimetable struct {
	replaced model.Week
}

func (f *fakeTimetable) GetWeek(context.Context, int64) (model.Week, error) {
	return model.NewWeek(), nil
}

func (f *fakeTimetable) ReplaceWeek(_ context.Context, _ int64, week model.Week) (model.Week, error) {
	for day, entries := range week {
		d := schedule.Day{}
		for _, e := range entries {
			b, err := service.EntryToBlock(e)
			if err != nil {
				return nil, err
			}
			d.Blocks = append(d.Blocks, b)
		}
		if err := schedule.ValidateDay(d); err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
	}
	f.replaced = week
	out := model.NewWeek()
	for day, entries := range week {
		out[day] = entries
	}
	return out, nil
}

func (f *fakeTimetable) AddEntry(_ context.Context, _ int64, _ string, e *model.TimetableEntry) (*model.TimetableEntry, error) {
	e.ID = 9
	return e, nil
}

func (f *fakeTimetable) DeleteEntry(context.Context, int64, int64) error { return nil }

type fakeDashboard struct {
	lastNow time.Time
}

func (f *fakeDashboard) Evaluate(_ context.Context, _ int64, now time.Time) (*service.Dashboard, error) {
	f.lastNow = now
	return &service.Dashboard{Now: now, Date: now.Format(model.DueDateLayout)}, nil
}

func (f *fakeDashboard) Days(context.Context, int64) (map[time.Weekday]schedule.Day, error) {
	return map[time.Weekday]schedule.Day{
		time.Monday: {Weekday: time.Monday, Blocks: []schedule.Block{{Label: "MATH", StartMinute: 480, EndMinute: 570}}},
	}, nil
}

func (f *fakeDashboard) Location() *time.Location { return time.UTC }

type fakeNotifications struct{}

func (fakeNotifications) List(context.Context, int64) ([]*model.Notification, error) {
	return []*model.Notification{}, nil
}

func (fakeNotifications) Create(_ context.Context, userID int64, message, kind string) (*model.Notification, error) {
	return &model.Notification{UserID: userID, Message: message, Type: kind}, nil
}

type testEnv struct {
	handler   http.Handler
	token     string
	timetable *fakeTimetable
	dashboard *fakeDashboard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	issuer := auth.NewIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(1)
	require.NoError(t, err)

	env := &testEnv{token: token, timetable: &fakeTimetable{}, dashboard: &fakeDashboard{}}
	srv := NewServer(Deps{
		Users:         fakeUsers{},
		Subjects:      fakeSubjects{},
		Tasks:         fakeTasks{},
		Timetable:     env.timetable,
		Dashboard:     env.dashboard,
		Notifications: fakeNotifications{},
		Tokens:        issuer,
		Now:           func() time.Time { return fixedNow },
	}, zap.NewNop())
	env.handler = srv.Handler()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil, false)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2024-05-06T09:00:00Z", body["timestamp"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestSignUpAndLogin(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		path    string
		body    any
		status  int
		message string
	}{
		{
			name:   "signup ok",
			path:   "/api/users/signup",
			body:   map[string]string{"name": "Ana", "email": "ana@example.com", "password": "secret1"},
			status: http.StatusCreated,
		},
		{
			name:    "signup taken",
			path:    "/api/users/signup",
			body:    map[string]string{"name": "Ana", "email": "taken@example.com", "password": "secret1"},
			status:  http.StatusBadRequest,
			message: "Email is already registered",
		},
		{
			name:    "signup invalid",
			path:    "/api/users/signup",
			body:    map[string]string{"name": "Ana", "email": "nope", "password": "123"},
			status:  http.StatusBadRequest,
			message: "Validation failed",
		},
		{
			name:    "broken json",
			path:    "/api/users/login",
			body:    "{",
			status:  http.StatusBadRequest,
			message: "Invalid JSON body",
		},
		{
			name:    "login wrong password",
			path:    "/api/users/login",
			body:    map[string]string{"email": "ana@example.com", "password": "nope"},
			status:  http.StatusUnauthorized,
			message: "Invalid email or password",
		},
		{
			name:   "login ok",
			path:   "/api/users/login",
			body:   map[string]string{"email": "ana@example.com", "password": "secret1"},
			status: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.path, tt.body, false)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			body := decodeBody(t, rec)
			if tt.message != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.message, body["message"])
				return
			}
			assert.Equal(t, true, body["success"])
			data := body["data"].(map[string]any)
			assert.Equal(t, "tok", data["token"])
			assert.Equal(t, "ana@example.com", data["email"])
			assert.EqualValues(t, 1, data["_id"])
		})
	}
}

func TestSignUpValidationUsesJSONNames(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/users/signup",
		map[string]string{"name": "  ", "email": "nope", "password": "123"}, false)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decodeBody(t, rec)["errors"].(map[string]any)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/tasks", "/api/subjects", "/api/timetable", "/api/dashboard", "/api/notifications"} {
		rec := env.do(t, http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "Please authenticate.", decodeBody(t, rec)["message"])
	}
}

func TestTimetableReplace(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid with combined time", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/timetable", map[string]any{
			"schedule": map[string]any{
				"Monday": []map[string]string{
					{"subject": "PROG1", "time": "3:00 PM - 4:30 PM", "room": "Lab 1", "type": "Laboratory"},
					{"subject": "MATH", "start_time": "08:00", "end_time": "9:30 am"},
				},
			},
		}, true)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		monday := env.timetable.replaced["Monday"]
		require.Len(t, monday, 2)
		assert.Equal(t, "3:00 PM", monday[0].StartTime)
		assert.Equal(t, "4:30 PM", monday[0].EndTime)

		sched := decodeBody(t, rec)["schedule"].(map[string]any)
		assert.Len(t, sched, 5)
		first := sched["Monday"].([]any)[0].(map[string]any)
		assert.Equal(t, "3:00 PM - 4:30 PM", first["time"])
	})

	t.Run("overlap is 422", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/timetable", map[string]any{
			"schedule": map[string]any{
				"Monday": []map[string]string{
					{"subject": "A", "time": "8:00 AM - 9:30 AM"},
					{"subject": "B", "time": "9:30 AM - 10:00 AM"},
				},
			},
		}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	})

	t.Run("malformed range is 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/timetable", map[string]any{
			"schedule": map[string]any{
				"Monday": []map[string]string{{"subject": "A", "time": "8:00 AM to 9:30 AM"}},
			},
		}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("missing time is 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/timetable", map[string]any{
			"schedule": map[string]any{
				"Monday": []map[string]string{{"subject": "A"}},
			},
		}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})
}

func TestAddEntryValidatesDay(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/timetable/entries",
		map[string]string{"day": "Saturday", "subject": "A", "time": "8:00 AM - 9:00 AM"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/timetable/entries",
		map[string]string{"day": "Friday", "subject": "A", "time": "8:00 AM - 9:00 AM"}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "8:00 AM - 9:00 AM", decodeBody(t, rec)["time"])
}

func TestDashboardClock(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/dashboard", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.dashboard.lastNow.Equal(fixedNow))

	rec = env.do(t, http.MethodGet, "/api/dashboard?at=2024-05-07T16:31:00Z", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-05-07", decodeBody(t, rec)["date"])

	rec = env.do(t, http.MethodGet, "/api/dashboard?at=tomorrow", nil, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskErrorMapping(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/api/tasks/3", map[string]string{"title": "x"}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/tasks/abc", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/tasks?status=boom", nil, true)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong!", decodeBody(t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/api/tasks", map[string]string{"title": "x", "priority": "urgent"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/tasks/4/complete", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decodeBody(t, rec)["status"])
}

func TestWeekImage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/timetable/week.png", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestNotifications(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/notifications", map[string]string{"message": "Exam moved", "type": "info"}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Exam moved", body["notification"].(map[string]any)["message"])

	rec = env.do(t, http.MethodGet, "/api/notifications", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "notifications")
}

func TestCORSAndNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodOptions, "/api/tasks", nil, false)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = env.do(t, http.MethodGet, "/api/unknown", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeBody(t, rec)["message"])
}
