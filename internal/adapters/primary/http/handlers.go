package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/fgz-roster/dutyroster/internal/adapters/primary/ical"
	"github.com/fgz-roster/dutyroster/internal/application/services"
	"github.com/fgz-roster/dutyroster/internal/domain"
)

const themeCookie = "theme"

// Handler handles HTTP requests
type Handler struct {
	logger         *slog.Logger
	templateMap    map[string]*template.Template
	roster         *services.RosterService
	title          string
	uiThemeDefault string
	now            func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(logger *slog.Logger, roster *services.RosterService) *Handler {
	return &Handler{
		logger:         logger,
		templateMap:    make(map[string]*template.Template),
		roster:         roster,
		title:          "Duty Roster",
		uiThemeDefault: "system",
		now:            time.Now,
	}
}

// SetTemplates sets the template map
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.templateMap = templates
}

// SetUIThemeDefault sets the theme used when the client has no theme cookie.
func (h *Handler) SetUIThemeDefault(theme string) {
	switch theme {
	case "light", "dark", "system":
		h.uiThemeDefault = theme
	default:
		h.uiThemeDefault = "system"
	}
}

// SetTitle sets the page title.
func (h *Handler) SetTitle(title string) {
	if title != "" {
		h.title = title
	}
}

// SetClock replaces the time source. Tests use it to pin "now".
func (h *Handler) SetClock(now func() time.Time) {
	if now != nil {
		h.now = now
	}
}

// Home renders the board page
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.roster.Location())
	snap := h.roster.Snapshot()
	board := h.roster.Board(now)

	data := map[string]any{
		"Board":           newBoardView(board),
		"Now":             now.Format("15:04"),
		"Today":           domain.DateOf(now).String(),
		"RefreshSeconds":  int(services.RefreshInterval / time.Second),
		"ClockIntervalMs": int(services.ClockInterval / time.Millisecond),
		"Loaded":          snap.Loaded(),
		"Skipped":         snap.Skipped,
	}
	if snap.Loaded() {
		data["FetchedAt"] = snap.FetchedAt.In(h.roster.Location()).Format("15:04:05")
	}
	if snap.LastError != nil {
		// Keep the last known board visible under the banner.
		data["RosterError"] = snap.LastError.Error()
	}

	h.renderTemplate(w, r, "index.html", data)
}

// BoardJSON returns the current board as JSON
func (h *Handler) BoardJSON(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(h.roster.Location())
	snap := h.roster.Snapshot()

	resp := boardResponse{
		Now:     now,
		Tag:     h.roster.Tag(),
		Board:   newBoardView(h.roster.Board(now)),
		Skipped: snap.Skipped,
	}
	if snap.Loaded() {
		fetched := snap.FetchedAt
		resp.FetchedAt = &fetched
	}
	if snap.LastError != nil {
		resp.Error = snap.LastError.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

// Calendar serves today's and upcoming sessions as an iCalendar feed
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	snap := h.roster.Snapshot()
	if !snap.Loaded() {
		h.handleError(w, r, snap.LastError)
		return
	}

	now := h.now().In(h.roster.Location())
	var buf bytes.Buffer
	if err := ical.Encode(&buf, snap.Sessions, now, h.title); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="roster.ics"`)
	_, _ = buf.WriteTo(w)
}

// ToggleTheme flips the theme cookie between light and dark
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	next := "dark"
	if h.themeMode(r) == "dark" {
		next = "light"
	}

	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    next,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Health reports whether the roster is loaded and the last refresh succeeded
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.roster.Snapshot()

	resp := healthResponse{Status: "ok", Sessions: len(snap.Sessions)}
	if snap.Loaded() {
		fetched := snap.FetchedAt
		resp.FetchedAt = &fetched
	}
	if !snap.Loaded() || snap.LastError != nil {
		resp.Status = "degraded"
	}
	if snap.LastError != nil {
		resp.Error = snap.LastError.Error()
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// Helper methods

func (h *Handler) themeMode(r *http.Request) string {
	if c, err := r.Cookie(themeCookie); err == nil {
		switch c.Value {
		case "light", "dark":
			return c.Value
		}
	}
	return h.uiThemeDefault
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	if data == nil {
		data = map[string]any{}
	}

	// Add common data
	if m, ok := data.(map[string]any); ok {
		m["Title"] = h.title
		m["Path"] = r.URL.Path
		m["ThemeDefault"] = h.uiThemeDefault
		m["ThemeMode"] = h.themeMode(r)
		m["RequestID"] = RequestIDFrom(r.Context())
		m["Year"] = h.now().Year()
	}

	// Set Content-Type header
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// Get the specific template for this page
	tmpl, ok := h.templateMap[name]
	if !ok {
		h.logger.Error("template not found", slog.String("template", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Execute the template
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template error", slog.Any("error", err), slog.String("template", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("handler error", slog.Any("error", err), slog.String("path", r.URL.Path))

	switch {
	case err == nil:
		http.Error(w, "Roster not loaded yet", http.StatusServiceUnavailable)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	case errors.Is(err, domain.ErrConnection), errors.Is(err, domain.ErrUpstream):
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
	case errors.Is(err, domain.ErrTimeout):
		http.Error(w, "Gateway Timeout", http.StatusGatewayTimeout)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
