package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studytracker/internal/application/usecase"
	"studytracker/internal/infrastructure/repository"
	"studytracker/internal/logger"
	"studytracker/internal/middleware"
	handlers "studytracker/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func newRouter(t *testing.T) (*gin.Engine, repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	return buildRouter(store, store), store
}

func buildRouter(store repository.Store, health handlers.Pinger) *gin.Engine {
	lg := logger.Nop()
	return handlers.NewRouter(
		handlers.RouterConfig{AllowedOrigins: []string{"*"}},
		lg,
		handlers.NewHealthHandler("studytracker-web-go", health, lg),
		handlers.NewTopicHandler(usecase.NewTopicUseCase(store, nil, lg), lg),
		handlers.NewSessionHandler(usecase.NewSessionUseCase(store, nil, lg), lg),
	)
}

func do(r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	TraceID string `json:"trace_id"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

func TestHealthz(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"studytracker-web-go"}`, w.Body.String())
}

func TestReadyz(t *testing.T) {
	store := repository.NewMemoryStore()

	w := do(buildRouter(store, pinger{}), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(buildRouter(store, pinger{err: errors.New("dial tcp: refused")}), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "HTTP_503", body.Error.Code)
}

func TestCreateTopicThenFetch(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodPost, "/topics", `{"name":"Docker","description":"Learn Docker"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[handlers.TopicResponse](t, w)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Docker", created.Name)
	require.NotNil(t, created.Description)
	assert.Equal(t, "Learn Docker", *created.Description)

	w = do(r, http.MethodGet, "/topics/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[handlers.TopicWithSessionsResponse](t, w)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.Empty(t, got.Sessions)
	assert.Contains(t, w.Body.String(), `"sessions":[]`)
}

func TestCreateTopicWithoutDescriptionRendersNull(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodPost, "/topics", `{"name":"Go"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"description":null`)
}

func TestSessionScenario(t *testing.T) {
	r, _ := newRouter(t)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/topics", `{"name":"Docker"}`).Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/topics", `{"name":"Postgres"}`).Code)

	w := do(r, http.MethodPost, "/sessions", `{"topic_id":2,"study_date":"2025-01-01","duration_minutes":60,"notes":"Intro session"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	session := decode[handlers.SessionResponse](t, w)
	assert.Equal(t, int64(2), session.TopicID)
	assert.Equal(t, "2025-01-01", session.StudyDate)
	assert.Equal(t, 60, session.DurationMinutes)

	w = do(r, http.MethodGet, "/topics/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	topic := decode[handlers.TopicWithSessionsResponse](t, w)
	require.Len(t, topic.Sessions, 1)
	assert.Equal(t, session.ID, topic.Sessions[0].ID)
	assert.Equal(t, "Intro session", *topic.Sessions[0].Notes)

	w = do(r, http.MethodGet, "/topics", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]handlers.TopicResponse](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "Postgres", list[0].Name)
	assert.NotContains(t, w.Body.String(), "sessions")
}

func TestSessionDefaultsStudyDateToToday(t *testing.T) {
	r, _ := newRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/topics", `{"name":"Docker"}`).Code)

	before := time.Now().Format("2006-01-02")
	w := do(r, http.MethodPost, "/sessions", `{"topic_id":1,"duration_minutes":30}`)
	after := time.Now().Format("2006-01-02")
	require.Equal(t, http.StatusCreated, w.Code)

	session := decode[handlers.SessionResponse](t, w)
	assert.Contains(t, []string{before, after}, session.StudyDate)
	assert.Nil(t, session.Notes)
}

func TestSessionUnknownTopicCreatesNothing(t *testing.T) {
	r, store := newRouter(t)

	w := do(r, http.MethodPost, "/sessions", `{"topic_id":9999,"duration_minutes":30}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "HTTP_400", body.Error.Code)
	assert.Equal(t, "topic_id", body.Error.Field)

	require.NoError(t, store.Transaction(context.Background(), func(repo repository.Repository) error {
		sessions, err := repo.ListSessions(context.Background(), 9999)
		assert.Empty(t, sessions)
		return err
	}))
}

func TestValidationFailures(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		body  string
		field string
	}{
		{"empty name", "/topics", `{"name":""}`, "name"},
		{"missing name", "/topics", `{"description":"x"}`, "name"},
		{"name wrong type", "/topics", `{"name":5}`, "name"},
		{"zero duration", "/sessions", `{"topic_id":1,"duration_minutes":0}`, "duration_minutes"},
		{"duration above a day", "/sessions", `{"topic_id":1,"duration_minutes":1441}`, "duration_minutes"},
		{"missing duration", "/sessions", `{"topic_id":1}`, "duration_minutes"},
		{"missing topic", "/sessions", `{"duration_minutes":10}`, "topic_id"},
		{"bad study date", "/sessions", `{"topic_id":1,"duration_minutes":10,"study_date":"01/02/2025"}`, "study_date"},
		{"malformed json", "/topics", `{"name":`, ""},
		{"empty body", "/sessions", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newRouter(t)
			require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/topics", `{"name":"Docker"}`).Code)

			w := do(r, http.MethodPost, tc.path, tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decode[errorBody](t, w)
			assert.Equal(t, "HTTP_400", body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Equal(t, tc.field, body.Error.Field)

			w = do(r, http.MethodGet, "/topics/1", "")
			assert.Empty(t, decode[handlers.TopicWithSessionsResponse](t, w).Sessions)
			assert.Len(t, decode[[]handlers.TopicResponse](t, do(r, http.MethodGet, "/topics", "")), 1)
		})
	}
}

func TestGetTopicErrors(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodGet, "/topics/42", "", middleware.HeaderTraceID, "trace-42")
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "trace-42", body.TraceID)
	assert.Equal(t, "HTTP_404", body.Error.Code)
	assert.Equal(t, "Topic not found", body.Error.Message)
	assert.Equal(t, "trace-42", w.Header().Get(middleware.HeaderTraceID))

	for _, id := range []string{"abc", "0", "-3"} {
		w = do(r, http.MethodGet, "/topics/"+id, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, "topic_id", decode[errorBody](t, w).Error.Field)
	}
}

func TestEmptyListIsArray(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodGet, "/topics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestVersionedPrefix(t *testing.T) {
	r, _ := newRouter(t)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/topics", `{"name":"Docker"}`).Code)
	w := do(r, http.MethodGet, "/topics/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/api/v1/topics", "")
	assert.Len(t, decode[[]handlers.TopicResponse](t, w), 1)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "HTTP_404", decode[errorBody](t, w).Error.Code)

	w = do(r, http.MethodDelete, "/topics", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "HTTP_405", decode[errorBody](t, w).Error.Code)
}

func TestRequestIDOnEveryResponse(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodGet, "/topics/7", "")
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	assert.Empty(t, decode[errorBody](t, w).TraceID)
}
