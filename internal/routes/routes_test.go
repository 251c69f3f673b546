package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/app"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/report"
	"github.com/BruksfildServices01/salon-scheduler/internal/testutil"
)

const testSecret = "test-secret"

type server struct {
	t      *testing.T
	router *gin.Engine
	app    *app.Container
	token  string
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Auth: config.AuthConfig{JWTSecret: testSecret},
		Scheduling: config.SchedulingConfig{
			DefaultHorizonDays:   30,
			MaxHorizonDays:       366,
			MaxQueryDays:         62,
			NextAvailableMaxDays: 30,
			RegenerationTimeout:  10 * time.Second,
			BulkConcurrency:      2,
		},
		RateLimit: config.RateLimitConfig{Requests: 1000, Window: time.Minute, Burst: 1000},
	}

	c, err := app.New(cfg, testutil.NewDB(t), zap.NewNop())
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	r := gin.New()
	RegisterRoutes(r, c, nil)

	return &server{t: t, router: r, app: c, token: signToken(t, 1, 10)}
}

func signToken(t *testing.T, business, actor uint) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        actor,
		"businessId": business,
		"role":       "owner",
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func (s *server) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" && strings.HasPrefix(path, "/api/me") {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

func weekPattern(start, end string) map[string]any {
	p := map[string]any{}
	for _, d := range []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"} {
		p[d] = map[string]any{
			"enabled": true,
			"shifts":  []map[string]string{{"start": start, "end": end}},
		}
	}
	return p
}

func (s *server) createSchedule(body map[string]any) uint {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/me/schedules", body)
	expectStatus(s.t, w, http.StatusCreated)
	return decode[struct {
		ID uint `json:"id"`
	}](s.t, w).ID
}

type availabilityList struct {
	Data  []dto.DayAvailability `json:"data"`
	Total int                   `json:"total"`
}

// ======================================================
// TESTS
// ======================================================

func TestHealth(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", nil)
	expectStatus(t, w, http.StatusOK)

	if w.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing request id header")
	}
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	s := newServer(t)
	s.token = ""

	w := s.do(http.MethodGet, "/api/me/schedules", nil)
	expectStatus(t, w, http.StatusUnauthorized)

	s.token = signToken(t, 0, 10)
	w = s.do(http.MethodGet, "/api/me/schedules", nil)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestScheduleValidationErrors(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/me/schedules", map[string]any{
		"name":                  "Padrão",
		"weekly_pattern":        weekPattern("09:00", "12:00"),
		"slot_duration_minutes": 0,
	})
	expectStatus(t, w, http.StatusBadRequest)
	if got := decode[httperr.HTTPError](t, w).Code; got != "invalid_slot_duration" {
		t.Errorf("error_code = %q", got)
	}

	w = s.do(http.MethodGet, "/api/me/schedules/999", nil)
	expectStatus(t, w, http.StatusNotFound)

	w = s.do(http.MethodGet, "/api/me/schedules/abc", nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestScheduleSlotFlow(t *testing.T) {
	s := newServer(t)

	id := s.createSchedule(map[string]any{
		"name":                  "Padrão",
		"weekly_pattern":        weekPattern("09:00", "12:00"),
		"slot_duration_minutes": 30,
		"timezone":              "UTC",
		"is_default":            true,
	})

	// generate
	w := s.do(http.MethodPost, "/api/me/schedules/"+itoa(id)+"/slots/generate", map[string]any{
		"from": "2025-03-03",
		"to":   "2025-03-03",
	})
	expectStatus(t, w, http.StatusCreated)
	gen := decode[struct {
		Created int `json:"created"`
	}](t, w)
	if gen.Created != 6 {
		t.Fatalf("created = %d, want 6", gen.Created)
	}

	// availability
	w = s.do(http.MethodGet, "/api/me/slots/availability?from=2025-03-03&to=2025-03-03", nil)
	expectStatus(t, w, http.StatusOK)
	days := decode[availabilityList](t, w)
	if len(days.Data) != 1 || len(days.Data[0].Specialists) != 1 {
		t.Fatalf("unexpected grouping: %+v", days)
	}
	free := days.Data[0].Specialists[0].AvailableSlots
	if len(free) != 6 {
		t.Fatalf("available = %d, want 6", len(free))
	}

	// block / book
	w = s.do(http.MethodPatch, "/api/me/slots/"+itoa(free[0].ID)+"/block", map[string]any{"reason": "Reunião"})
	expectStatus(t, w, http.StatusOK)
	if got := decode[dto.SlotDTO](t, w).Status; got != "blocked" {
		t.Errorf("status after block = %q", got)
	}

	w = s.do(http.MethodPatch, "/api/me/slots/"+itoa(free[0].ID)+"/block", map[string]any{})
	expectStatus(t, w, http.StatusBadRequest)

	w = s.do(http.MethodPatch, "/api/me/slots/"+itoa(free[1].ID)+"/book", map[string]any{"appointment_id": 77})
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodPatch, "/api/me/slots/"+itoa(free[1].ID)+"/book", map[string]any{"appointment_id": 78})
	expectStatus(t, w, http.StatusConflict)
	if got := decode[httperr.HTTPError](t, w).Code; got != "slot_already_taken" {
		t.Errorf("error_code = %q", got)
	}

	// public view only sees free slots
	w = s.do(http.MethodGet, "/api/public/businesses/1/availability?from=2025-03-03&to=2025-03-03", nil)
	expectStatus(t, w, http.StatusOK)
	pub := decode[availabilityList](t, w)
	if n := len(pub.Data[0].Specialists[0].AvailableSlots); n != 4 {
		t.Errorf("public available = %d, want 4", n)
	}
	if n := len(pub.Data[0].Specialists[0].BookedSlots); n != 0 {
		t.Errorf("public booked = %d, want 0", n)
	}

	w = s.do(http.MethodGet, "/api/public/businesses/1/next-available?from=2025-03-03T00:00:00Z", nil)
	expectStatus(t, w, http.StatusOK)
	next := decode[struct {
		Found bool        `json:"found"`
		Slot  dto.SlotDTO `json:"slot"`
	}](t, w)
	if !next.Found || next.Slot.StartTime != "10:00" {
		t.Errorf("next available = %+v", next)
	}

	// stats
	w = s.do(http.MethodGet, "/api/me/utilization/stats?from=2025-03-03&to=2025-03-03", nil)
	expectStatus(t, w, http.StatusOK)
	stats := decode[struct {
		Summary struct {
			Total   int `json:"total_slots"`
			Booked  int `json:"booked_slots"`
			Blocked int `json:"blocked_slots"`
		} `json:"summary"`
	}](t, w)
	if stats.Summary.Total != 6 || stats.Summary.Booked != 1 || stats.Summary.Blocked != 1 {
		t.Errorf("summary = %+v", stats.Summary)
	}

	// default schedule cannot be deleted
	w = s.do(http.MethodDelete, "/api/me/schedules/"+itoa(id), nil)
	expectStatus(t, w, http.StatusConflict)

	// audit trail
	if err := s.app.Close(context.Background()); err != nil {
		t.Fatalf("drain audit: %v", err)
	}
	w = s.do(http.MethodGet, "/api/me/audit-logs?action=schedule_created", nil)
	expectStatus(t, w, http.StatusOK)
	logs := decode[struct {
		Total int64 `json:"total"`
	}](t, w)
	if logs.Total != 1 {
		t.Errorf("audit total = %d, want 1", logs.Total)
	}
}

func TestUtilizationExport(t *testing.T) {
	s := newServer(t)

	id := s.createSchedule(map[string]any{
		"name":                  "Padrão",
		"weekly_pattern":        weekPattern("09:00", "10:00"),
		"slot_duration_minutes": 30,
		"timezone":              "UTC",
	})
	w := s.do(http.MethodPost, "/api/me/schedules/"+itoa(id)+"/slots/generate", map[string]any{
		"from": "2025-03-03",
		"to":   "2025-03-04",
	})
	expectStatus(t, w, http.StatusCreated)

	w = s.do(http.MethodGet, "/api/me/utilization/report/export?from=2025-03-03&to=2025-03-04", nil)
	expectStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); ct != report.ContentType {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "utilizacao_2025-03-03_2025-03-04.xlsx") {
		t.Errorf("content disposition = %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Errorf("empty workbook")
	}

	w = s.do(http.MethodGet, "/api/me/utilization/stats?from=2025-03-03&to=2025-03-04&group_by=year", nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestBulkGenerateReportsPerSchedule(t *testing.T) {
	s := newServer(t)

	id := s.createSchedule(map[string]any{
		"name":                  "Padrão",
		"weekly_pattern":        weekPattern("09:00", "10:00"),
		"slot_duration_minutes": 30,
		"timezone":              "UTC",
	})

	w := s.do(http.MethodPost, "/api/me/schedules/bulk-generate", map[string]any{
		"schedule_ids": []uint{id, 999},
		"from":         "2025-03-03",
		"to":           "2025-03-03",
	})
	expectStatus(t, w, http.StatusOK)

	res := decode[struct {
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}](t, w)
	if res.Succeeded != 1 || res.Failed != 1 {
		t.Errorf("bulk result = %+v", res)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
