package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kotrzina/calassist/pkg/ai"
	"github.com/kotrzina/calassist/pkg/extractor"
	"github.com/kotrzina/calassist/pkg/ics"
	"github.com/kotrzina/calassist/pkg/prometheus"
	"github.com/kotrzina/calassist/pkg/store"
	"github.com/kotrzina/calassist/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const maxBodySize = 64 << 10

// historyEntry is a stored link without the submitted text
type historyEntry struct {
	URL       string    `json:"url"`
	EventName string    `json:"event_name"`
	Provider  string    `json:"provider"`
	At        time.Time `json:"at"`
}

type HandlerRepository struct {
	extractor *extractor.Extractor
	storage   store.Storage
	monitor   *prometheus.Monitor
	logger    *logrus.Logger
}

func NewHandlerRepository(e *extractor.Extractor, s store.Storage, m *prometheus.Monitor, l *logrus.Logger) *HandlerRepository {
	return &HandlerRepository{
		extractor: e,
		storage:   s,
		monitor:   m,
		logger:    l,
	}
}

// metricsHandler returns HTTP handler for metrics endpoint
func (hr *HandlerRepository) metricsHandler() http.Handler {
	return promhttp.HandlerFor(
		hr.monitor.Registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          hr.monitor.Registry,
		},
	)
}

func (hr *HandlerRepository) healthHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write(utils.GetOkJSON())
		if err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	}
}

// extract decodes the request and runs the extractor
// It writes the error response itself and returns false on failure.
func (hr *HandlerRepository) extract(w http.ResponseWriter, r *http.Request) (extractor.Result, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return extractor.Result{}, false
	}

	var req extractor.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		hr.writeError(w, http.StatusBadRequest, "Invalid request body")
		return extractor.Result{}, false
	}

	if req.Text == "" {
		hr.writeError(w, http.StatusBadRequest, "Missing text")
		return extractor.Result{}, false
	}

	res, err := hr.extractor.Extract(r.Context(), req)
	if err != nil {
		if errors.Is(err, ai.ErrInvalidAPIKey) {
			hr.writeError(w, http.StatusUnauthorized, ai.ErrInvalidAPIKey.Error())
			return extractor.Result{}, false
		}

		hr.logger.Warnf("could not generate link because %v", err)
		hr.writeError(w, http.StatusInternalServerError, extractor.ErrFailed.Error())
		return extractor.Result{}, false
	}

	return res, true
}

func (hr *HandlerRepository) linkHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := hr.extract(w, r)
		if !ok {
			return
		}

		hr.writeJSON(w, res)
	}
}

func (hr *HandlerRepository) linkICSHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := hr.extract(w, r)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="event.ics"`)
		_, err := w.Write([]byte(ics.Export(res.Params, time.Now())))
		if err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	}
}

func (hr *HandlerRepository) linksHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		limit := 20
		if l := r.URL.Query().Get("limit"); l != "" {
			parsed, err := strconv.Atoi(l)
			if err != nil || parsed <= 0 {
				hr.writeError(w, http.StatusBadRequest, "Invalid limit")
				return
			}
			limit = parsed
		}

		links, err := hr.storage.GetLinks(limit)
		if err != nil {
			hr.logger.Errorf("Could not read links: %v", err)
			hr.writeError(w, http.StatusInternalServerError, "Could not read links")
			return
		}

		entries := make([]historyEntry, len(links))
		for i, link := range links {
			entries[i] = historyEntry{
				URL:       link.URL,
				EventName: link.EventName,
				Provider:  link.Provider,
				At:        link.At,
			}
		}
		hr.writeJSON(w, entries)
	}
}

func (hr *HandlerRepository) writeJSON(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Could not marshal data to JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(res)
	if err != nil {
		hr.logger.Errorf("Could not write response: %v", err)
	}
}

func (hr *HandlerRepository) writeError(w http.ResponseWriter, status int, message string) {
	res, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: message})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(res)
	if err != nil {
		hr.logger.Errorf("Could not write response: %v", err)
	}
}
