package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jellydator/ttlcache/v3"
	log "github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// intParam returns a positive integer query parameter or def
func intParam(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

// handleRecent handles /api/recent requests
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	hours := intParam(r, "hours", 24)

	var (
		results any
		err     error
	)
	if host := r.URL.Query().Get("host"); host != "" {
		results, err = s.db.GetHostEvents(host, hours)
	} else {
		results, err = s.db.GetRecent(hours)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, results)
}

// handleStats handles /api/stats requests
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	hours := intParam(r, "hours", 24)

	if s.statsCache != nil {
		if item := s.statsCache.Get(hours); item != nil {
			writeJSON(w, item.Value())
			return
		}
	}

	stats, err := s.db.GetStats(hours)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if s.statsCache != nil {
		s.statsCache.Set(hours, stats, ttlcache.DefaultTTL)
	}

	writeJSON(w, stats)
}

// handleSummary handles /api/summary requests with the live aggregates
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.summaries == nil {
		http.Error(w, "summaries unavailable", http.StatusServiceUnavailable)
		return
	}

	summaries := s.summaries.Summaries()
	if host := r.URL.Query().Get("host"); host != "" {
		for _, summary := range summaries {
			if summary.Host == host {
				writeJSON(w, summary)
				return
			}
		}
		http.Error(w, "unknown host", http.StatusNotFound)
		return
	}

	writeJSON(w, summaries)
}

// handleOutages handles /api/outages requests
func (s *Server) handleOutages(w http.ResponseWriter, r *http.Request) {
	outages, err := s.db.GetOutages(intParam(r, "days", 7))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, outages)
}

// handleHeatmap handles /api/heatmap requests
func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	heatmapData, err := s.db.GetHeatmapData(intParam(r, "days", 30))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, heatmapData)
}
