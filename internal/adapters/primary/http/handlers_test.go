package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fgz-roster/dutyroster/internal/domain"
	"github.com/fgz-roster/dutyroster/internal/ports"
)

var duringCS101 = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

func TestHome_PopulatedBoard(t *testing.T) {
	h, _ := newTestHandler(t, ports.NewMockRosterSource().WithRecords(sampleRecords()), true, duringCS101)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.Home(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type = %q", ct)
	}

	html := rr.Body.String()
	mustContain(t, html, "<title>FGZ Duty Roster</title>")
	mustContain(t, html, `<meta http-equiv="refresh" content="300">`)
	mustContain(t, html, `id="currentTime"`)
	mustContain(t, html, "09:30")
	mustContain(t, html, "<span class=\"bold\">Course:</span> CS101")
	mustContain(t, html, "<span class=\"bold\">Room: 402</span>")
	mustContain(t, html, "<span class=\"bold\">14:00-15:00</span> &mdash; CS202 (402)")
	mustContain(t, html, "setInterval(tick,")
	mustNotContain(t, html, "No ongoing duty")
	mustNotContain(t, html, "banner-error")
}

func TestHome_Placeholders(t *testing.T) {
	nextDay := time.Date(2024, 6, 11, 12, 0, 0, 0, time.UTC)
	h, _ := newTestHandler(t, ports.NewMockRosterSource().WithRecords(sampleRecords()), true, nextDay)

	rr := httptest.NewRecorder()
	h.Home(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	html := rr.Body.String()
	mustContain(t, html, "No ongoing duty")
	mustContain(t, html, "No upcoming duties")
	mustContain(t, html, "No duties today")
}

func TestHome_ErrorBannerKeepsLastKnownBoard(t *testing.T) {
	mock := ports.NewMockRosterSource().WithRecords(sampleRecords())
	h, roster := newTestHandler(t, mock, true, duringCS101)

	mock.WithError(domain.ErrUpstream)
	if err := roster.Refresh(t.Context()); err == nil {
		t.Fatal("expected refresh error")
	}

	rr := httptest.NewRecorder()
	h.Home(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	html := rr.Body.String()
	mustContain(t, html, "banner-error")
	mustContain(t, html, "upstream error")
	mustContain(t, html, "CS101")
}

func TestHome_NotLoaded(t *testing.T) {
	h, _ := newTestHandler(t, ports.NewMockRosterSource(), false, duringCS101)

	rr := httptest.NewRecorder()
	h.Home(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	mustContain(t, rr.Body.String(), "Loading roster")
}

func TestHome_ThemeFromCookieAndDefault(t *testing.T) {
	h, _ := newTestHandler(t, ports.NewMockRosterSource().WithRecords(sampleRecords()), true, duringCS101)
	h.SetUIThemeDefault("dark")

	rr := httptest.NewRecorder()
	h.Home(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	mustContain(t, rr.Body.String(), `class="theme-dark dark"`)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: themeCookie, Value: "light"})
	rr = httptest.NewRecorder()
	h.Home(rr, req)
	mustContain(t, rr.Body.String(), `class="theme-light"`)
}

func TestBoardJSON(t *testing.T) {
	h, _ := newTestHandler(t, ports.NewMockRosterSource().WithRecords(sampleRecords()), true, duringCS101)

	rr := httptest.NewRecorder()
	h.BoardJSON(rr, httptest.NewRequest(http.MethodGet, "/api/board", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}

	var resp boardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Tag != "FGZ" {
		t.Errorf("tag = %q", resp.Tag)
	}
	if resp.Board.Ongoing == nil || resp.Board.Ongoing.Course != "CS101" {
		t.Errorf("ongoing = %+v", resp.Board.Ongoing)
	}
	if resp.Board.Next == nil || resp.Board.Next.Room != "402" {
		t.Errorf("next = %+v", resp.Board.Next)
	}
	if len(resp.Board.Today) != 2 {
		t.Errorf("today = %+v", resp.Board.Today)
	}
	if resp.FetchedAt == nil {
		t.Error("fetched_at should be set")
	}
}

func TestBoardJSON_EmptyTodayIsArray(t *testing.T) {
	h, _ := newTestHandler(t, ports.NewMockRosterSource(), false, duringCS101)

	rr := httptest.NewRecorder()
	h.BoardJSON(rr, httptest.NewRequest(http.MethodGet, "/api/board", nil))

	body := rr.Body.String()
	if !strings.Contains(body, `"today":[]`) || !strings.Contains(body, `"ongoing":null`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestToggleTheme(t *testing.T) {
	h, _ := newTestHandler(t, ports.NewMockRosterSource(), false, duringCS101)

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"NoCookie", "", "dark"},
		{"FromDark", "dark", "light"},
		{"FromLight", "light", "dark"},
		{"Garbage", "neon", "dark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/theme", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: themeCookie, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			h.ToggleTheme(rr, req)

			if rr.Code != http.StatusSeeOther {
				t.Fatalf("status = %d", rr.Code)
			}
			if loc := rr.Header().Get("Location"); loc != "/" {
				t.Fatalf("Location = %q", loc)
			}
			cookies := rr.Result().Cookies()
			if len(cookies) != 1 || cookies[0].Name != themeCookie || cookies[0].Value != tt.want {
				t.Fatalf("cookies = %+v, want theme=%s", cookies, tt.want)
			}
		})
	}
}

func TestCalendar(t *testing.T) {
	h, _ := newTestHandler(t, ports.NewMockRosterSource().WithRecords(sampleRecords()), true, duringCS101)

	rr := httptest.NewRecorder()
	h.Calendar(rr, httptest.NewRequest(http.MethodGet, "/roster.ics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := rr.Body.String()
	if strings.Count(body, "BEGIN:VEVENT") != 2 {
		t.Fatalf("expected 2 events:\n%s", body)
	}
}

func TestCalendar_Statuses(t *testing.T) {
	t.Run("NotLoaded", func(t *testing.T) {
		h, _ := newTestHandler(t, ports.NewMockRosterSource(), false, duringCS101)
		rr := httptest.NewRecorder()
		h.Calendar(rr, httptest.NewRequest(http.MethodGet, "/roster.ics", nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d", rr.Code)
		}
	})

	t.Run("FirstFetchFailed", func(t *testing.T) {
		h, _ := newTestHandler(t, ports.NewMockRosterSource().WithError(domain.ErrTimeout), true, duringCS101)
		rr := httptest.NewRecorder()
		h.Calendar(rr, httptest.NewRequest(http.MethodGet, "/roster.ics", nil))
		if rr.Code != http.StatusGatewayTimeout {
			t.Fatalf("status = %d", rr.Code)
		}
	})

	t.Run("NothingUpcoming", func(t *testing.T) {
		later := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		h, _ := newTestHandler(t, ports.NewMockRosterSource().WithRecords(sampleRecords()), true, later)
		rr := httptest.NewRecorder()
		h.Calendar(rr, httptest.NewRequest(http.MethodGet, "/roster.ics", nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rr.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		mock       *ports.MockRosterSource
		refresh    bool
		wantStatus int
		wantBody   string
	}{
		{"Loaded", ports.NewMockRosterSource().WithRecords(sampleRecords()), true, http.StatusOK, `"status":"ok"`},
		{"NotLoaded", ports.NewMockRosterSource(), false, http.StatusServiceUnavailable, `"status":"degraded"`},
		{"Failed", ports.NewMockRosterSource().WithError(domain.ErrConnection), true, http.StatusServiceUnavailable, "connection failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, tt.mock, tt.refresh, duringCS101)
			rr := httptest.NewRecorder()
			h.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Fatalf("body %q should contain %q", rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandleError_MapsSentinels(t *testing.T) {
	h, _ := newTestHandler(t, ports.NewMockRosterSource(), false, duringCS101)

	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusServiceUnavailable},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrConnection, http.StatusBadGateway},
		{domain.ErrUpstream, http.StatusBadGateway},
		{domain.ErrTimeout, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		err := tt.err
		if err != nil {
			err = errors.Join(errors.New("context"), err)
		}
		h.handleError(rr, httptest.NewRequest(http.MethodGet, "/x", nil), err)
		if rr.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, rr.Code, tt.want)
		}
	}
}

func TestRenderTemplate_Missing(t *testing.T) {
	h, _ := newTestHandler(t, ports.NewMockRosterSource(), false, duringCS101)

	rr := httptest.NewRecorder()
	h.renderTemplate(rr, httptest.NewRequest(http.MethodGet, "/", nil), "nope.html", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}
