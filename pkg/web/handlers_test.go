package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kotrzina/calassist/pkg/ai"
	"github.com/kotrzina/calassist/pkg/config"
	"github.com/kotrzina/calassist/pkg/extractor"
	"github.com/kotrzina/calassist/pkg/gcal"
	"github.com/kotrzina/calassist/pkg/prometheus"
	"github.com/kotrzina/calassist/pkg/prompt"
	"github.com/kotrzina/calassist/pkg/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	content string
	err     error
	apiKey  string
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "v1" }

func (p *scriptedProvider) Complete(_ context.Context, apiKey string, _ ai.Conversation) (ai.Reply, error) {
	p.apiKey = apiKey
	if p.err != nil {
		return ai.Reply{}, p.err
	}
	return ai.Reply{Message: ai.Message{Role: ai.RoleAssistant, Content: p.content}}, nil
}

func newTestRouter(t *testing.T, p ai.Provider) (http.Handler, *store.FakeStore) {
	t.Helper()

	l := logrus.New()
	l.SetOutput(io.Discard)
	m := prometheus.New()
	s := store.NewFakeStore()
	conf := &config.Config{Timezone: "UTC", CalendarBaseURL: gcal.BaseURL, OpenAiAPIKey: "sk-server"}
	b := prompt.NewBuilder("Today is ${date}", time.Now)

	e, err := extractor.NewExtractor(conf, p, b, s, nil, m, l)
	require.NoError(t, err)

	return NewRouter(NewHandlerRepository(e, s, m, l)), s
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLinkHandler(t *testing.T) {
	p := &scriptedProvider{content: `{"eventName":"Team Sync","dates":{"start":"2024-03-01T09:00:00","end":"2024-03-01T10:00:00"}}`}
	h, s := newTestRouter(t, p)

	rec := post(h, "/api/link", `{"text":"team sync friday at 9","apikey":"sk-user"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res struct {
		URL     string `json:"url"`
		Cached  bool   `json:"cached"`
		Details struct {
			EventName string `json:"eventName"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, gcal.BaseURL+"&text=Team%20Sync&dates=20240301T090000Z/20240301T100000Z", res.URL)
	assert.Equal(t, "Team Sync", res.Details.EventName)
	assert.Equal(t, "sk-user", p.apiKey)

	links, err := s.GetLinks(0)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestLinkHandlerErrors(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		body     string
		provider *scriptedProvider
		status   int
		message  string
	}{
		{"wrong method", http.MethodGet, "", &scriptedProvider{}, http.StatusMethodNotAllowed, ""},
		{"invalid body", http.MethodPost, "text=hello", &scriptedProvider{}, http.StatusBadRequest, "Invalid request body"},
		{"missing text", http.MethodPost, `{"apikey":"x"}`, &scriptedProvider{}, http.StatusBadRequest, "Missing text"},
		{
			"invalid api key", http.MethodPost, `{"text":"x"}`,
			&scriptedProvider{err: ai.ErrInvalidAPIKey},
			http.StatusUnauthorized, "settings error: incorrect or missing API key",
		},
		{
			"provider failure", http.MethodPost, `{"text":"x"}`,
			&scriptedProvider{err: errors.New("connection reset")},
			http.StatusInternalServerError, "could not generate calendar link",
		},
		{
			"reply is not json", http.MethodPost, `{"text":"x"}`,
			&scriptedProvider{content: "I could not find an event."},
			http.StatusInternalServerError, "could not generate calendar link",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(t, tt.provider)

			req := httptest.NewRequest(tt.method, "/api/link", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				var body struct {
					Error string `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.message, body.Error)
				assert.NotContains(t, rec.Body.String(), "url")
			}
		})
	}
}

func TestLinkICSHandler(t *testing.T) {
	h, _ := newTestRouter(t, &scriptedProvider{content: `{"eventName":"Dentist","location":"Main Street"}`})

	rec := post(h, "/api/link.ics", `{"text":"dentist"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Body.String(), "SUMMARY:Dentist")
	assert.Contains(t, rec.Body.String(), "LOCATION:Main Street")
}

func TestLinksHandler(t *testing.T) {
	h, s := newTestRouter(t, &scriptedProvider{})
	require.NoError(t, s.AddLink(store.Link{URL: "u1"}))
	require.NoError(t, s.AddLink(store.Link{URL: "u2", Text: "dinner with Jana, code 4411", EventName: "Dinner"}))

	req := httptest.NewRequest(http.MethodGet, "/api/links?limit=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var links []store.Link
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &links))
	require.Len(t, links, 1)
	assert.Equal(t, "u2", links[0].URL)
	assert.Equal(t, "Dinner", links[0].EventName)
	assert.Empty(t, links[0].Text)
	assert.NotContains(t, rec.Body.String(), "4411")
	assert.NotContains(t, rec.Body.String(), `"text"`)

	req = httptest.NewRequest(http.MethodGet, "/api/links?limit=-4", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLinksHandlerEmpty(t *testing.T) {
	h, _ := newTestRouter(t, &scriptedProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestMetricsAndHealth(t *testing.T) {
	h, _ := newTestRouter(t, &scriptedProvider{content: `{}`})
	post(h, "/api/link", `{"text":"x"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "calassist_links_generated_total")

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"is_ok":true}`, rec.Body.String())
}
