package api

import (
	"net/http"
	"time"
)

// HoursGate restricts hosting new games during business hours
// (09:00-17:00 America/New_York, Monday to Friday). Joining and playing
// existing games is always allowed.
type HoursGate struct {
	Enabled  bool
	location *time.Location
	now      func() time.Time
}

// NewHoursGate creates a gate; a disabled gate never restricts
func NewHoursGate(enabled bool) *HoursGate {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("EST", -5*60*60)
	}
	return &HoursGate{Enabled: enabled, location: loc, now: time.Now}
}

// IsBusinessHours reports whether t falls on a weekday between 9 AM and 5 PM Eastern
func (g *HoursGate) IsBusinessHours(t time.Time) bool {
	local := t.In(g.location)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return local.Hour() >= 9 && local.Hour() < 17
}

// Restricted reports whether hosting is currently blocked
func (g *HoursGate) Restricted() bool {
	return g != nil && g.Enabled && g.IsBusinessHours(g.now())
}

func (s *Server) hosting(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.hours.Restricted() {
			respondError(w, http.StatusForbidden,
				"Hosting new games is restricted during business hours (9 AM - 5 PM ET, Monday-Friday). You can still join existing games.")
			return
		}
		next(w, r)
	}
}
