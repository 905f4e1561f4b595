package main

import (
	"encoding/csv"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	addr := getenv("SHEET_ADDR", ":8080")
	loc, err := time.LoadLocation(getenv("SHEET_TZ", "UTC"))
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /roster.csv", func(w http.ResponseWriter, r *http.Request) {
		writeRoster(w, time.Now().In(loc), false)
	})
	mux.HandleFunc("GET /roster-bom.csv", func(w http.ResponseWriter, r *http.Request) {
		writeRoster(w, time.Now().In(loc), true)
	})
	mux.HandleFunc("GET /broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sheet unavailable", http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	log.Printf("sheet stub listening on %s (tz %s)", addr, loc)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("listen %s: %v", addr, err)
	}
}

// writeRoster writes a roster relative to now: one session in progress, one
// at midnight today, one tomorrow morning, one for another tag and one
// malformed row.
func writeRoster(w http.ResponseWriter, now time.Time, bom bool) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if bom {
		_, _ = w.Write([]byte("\ufeff"))
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(23*time.Hour + 59*time.Minute)

	start := now.Add(-30 * time.Minute)
	if start.Before(dayStart) {
		start = dayStart
	}
	end := now.Add(30 * time.Minute)
	if end.After(dayEnd) {
		end = dayEnd
	}
	today := now.Format("02-01-2006")
	tomorrow := dayStart.AddDate(0, 0, 1).Format("02-01-2006")

	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Date", "Time", "Course/Sec", "Room", "Inv 1", "Inv 2", "Res."},
		{today, start.Format("15:04") + "-" + end.Format("15:04"), "IT-ONGOING", "R-101", "FGZ", "", ""},
		{today, "00:00-00:00", "IT-MIDNIGHT", "R-000", "", "", "FGZ"},
		{tomorrow, "09:00-10:00", "IT-NEXT", "R-202", "", "FGZ", ""},
		{today, "10:00-11:00", "IT-OTHER", "R-303", "ABC", "", ""},
		{"31/12/2099", "10:00-11:00", "IT-BAD-DATE", "R-404", "FGZ", "", ""},
	}
	if err := cw.WriteAll(rows); err != nil {
		log.Printf("write roster: %v", err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
