package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_RecordsRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/42", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	m.LoginAttempt("success")
	m.GuardRejected("privilege")
	m.MailJob("abandoned")

	out := httptest.NewRecorder()
	m.Handler().ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(out.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `http_requests_total{method="GET",route="/accounts/{id}",status="418"} 1`)
	assert.Contains(t, text, `auth_logins_total{result="success"} 1`)
	assert.Contains(t, text, `auth_guard_rejections_total{reason="privilege"} 1`)
	assert.Contains(t, text, `mail_jobs_total{result="abandoned"} 1`)
}
