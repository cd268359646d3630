package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/apiclient"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/http/handlers"
	httpmiddleware "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/http/middleware"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/journey"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/observability/metrics"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/orchestration"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/review"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/sessions"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/timeline"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

const testSecret = "test-secret"

func orchestrationStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/visit-sessions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"sessionTemplateReference":"v9d.7ed.7u","visitRoom":"Visit room 1","prisonCode":"HEI",
			"openVisitCapacity":15,"openVisitBookedCount":0,"closedVisitCapacity":10,"closedVisitBookedCount":0,
			"startTimestamp":"2022-02-14T10:00:00","endTimestamp":"2022-02-14T11:00:00"}]`))
	})
	mux.HandleFunc("/visit-sessions/capacity", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/visits/ab-cd-ef-gh/history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"visit":{"reference":"ab-cd-ef-gh","visitNotes":[]},
			"eventsAudit":[{"type":"BOOKED_VISIT","applicationMethodType":"PHONE","actionedByFullName":"User One","createTimestamp":"2022-01-01T09:00:00"}]}`))
	})
	mux.HandleFunc("/visits/notification/HEI/visits", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"visitReference":"ab-cd-ef-gh","prisonerNumber":"A1234BC","bookedByUserName":"STAFF_USER",
			"bookedByName":"Staff User","visitDate":"2024-05-01","notifications":[{"type":"PRISONER_RELEASED_EVENT"}]}]`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.Default()
	reg := prometheus.NewRegistry()
	m := metrics.NewUpstreamMetrics(reg)

	api := apiclient.New(apiclient.Options{API: "orchestration", BaseURL: orchestrationStub(t).URL, Logger: logger, Metrics: m})
	orch := orchestration.NewClient(api)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(&Config{
		Logger: logger,
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.HealthCheck{
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		SessionsHandler:    handlers.NewSessionsHandler(sessions.NewService(orch, nil, logger, m), 2, logger),
		TimelineHandler:    handlers.NewTimelineHandler(timeline.NewService(orch, logger), logger),
		ReviewHandler:      handlers.NewReviewHandler(review.NewService(orch, logger), logger),
		JourneyHandler:     handlers.NewJourneyHandler(journey.NewService(journey.NewRedisStore(rdb, 20*time.Minute), orch, logger, m), logger),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"https://visits.example"},
		UserTokenSecret:    testSecret,
		RequiredRole:       httpmiddleware.RoleManagePrisonVisits,
		JourneyRateLimiter: httpmiddleware.NewRateLimiter(100, 100),
	})
}

func staffToken(t *testing.T) string {
	t.Helper()
	claims := httpmiddleware.StaffClaims{
		UserName:    "STAFF_USER",
		Authorities: []string{httpmiddleware.RoleManagePrisonVisits},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func do(t *testing.T, router http.Handler, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+staffToken(t))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"UP","components":{"redis":"UP"}}`, rec.Body.String())
}

func TestRouterRequiresStaffToken(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/prisons/HEI/review", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterVisitSessions(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/prisons/HEI/prisoners/A1234BC/visit-sessions?restriction=OPEN", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body struct {
		SlotsList []struct {
			Month string `json:"month"`
			Days  []struct {
				Date string `json:"date"`
			} `json:"days"`
		} `json:"slotsList"`
		WhereaboutsAvailable bool `json:"whereaboutsAvailable"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.SlotsList, 1)
	assert.Equal(t, "February 2022", body.SlotsList[0].Month)
	assert.Equal(t, "Monday 14 February", body.SlotsList[0].Days[0].Date)
	assert.False(t, body.WhereaboutsAvailable)

	metricsRec := do(t, router, http.MethodGet, "/metrics", "", false)
	assert.Contains(t, metricsRec.Body.String(), `visits_staff_upstream_requests_total{api="orchestration",status="200"} 1`)
}

func TestRouterSessionCapacityUnknown(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/prisons/HEI/session-capacity?date=2024-05-02&startTime=10:00&endTime=11:00", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"capacity":null}`, rec.Body.String())
}

func TestRouterTimelineAndReview(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/visits/ab-cd-ef-gh/timeline", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"Booked"`)

	rec = do(t, router, http.MethodGet, "/prisons/HEI/review?type=PRISONER_RELEASED_EVENT", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"visitReference":"ab-cd-ef-gh"`)
	assert.Contains(t, rec.Body.String(), `"Prisoner released"`)
}

func TestRouterJourney(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/journeys", `{"prisonId":"HEI","prisonerId":"A1234BC"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var started map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	id := started["id"].(string)

	rec = do(t, router, http.MethodPut, "/journeys/"+id+"/steps/select-visitors", `{"visitorIds":[4321]}`, true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/journeys/"+id, "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nextStep":"choose-time"`)

	rec = do(t, router, http.MethodPost, "/journeys/"+id+"/complete", "", true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodDelete, "/journeys/"+id, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/journeys", nil)
	req.Header.Set("Origin", "https://visits.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://visits.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
