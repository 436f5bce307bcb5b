package stubapi

import "net/http"

var timezones = []string{
	"Africa/Cairo",
	"America/New_York",
	"America/Sao_Paulo",
	"Asia/Tokyo",
	"Australia/Sydney",
	"Europe/Lisbon",
	"Europe/Madrid",
	"UTC",
}

func (s *Server) listTimezones(w http.ResponseWriter, r *http.Request) {
	excludeUTC := false
	if raw := r.URL.Query().Get("excludeUtc"); raw != "" {
		switch raw {
		case "true":
			excludeUTC = true
		case "false":
		default:
			writeError(w, http.StatusBadRequest, "excludeUtc must be true or false")
			return
		}
	}

	out := make([]string, 0, len(timezones))
	for _, tz := range timezones {
		if excludeUTC && tz == "UTC" {
			continue
		}
		out = append(out, tz)
	}
	writeJSON(w, http.StatusOK, map[string]any{"timezones": out})
}
