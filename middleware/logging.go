package middleware

import (
	"net/http"
	"time"

	"teamsync-project/backend/workspace-service/logging"
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := logging.Logger.WithField("status", rec.status)
		const description = "%s %s completed with %d in %s"
		switch {
		case rec.status >= 500:
			entry.Errorf("Event ID: HTTP_REQUEST, Description: "+description, r.Method, r.URL.Path, rec.status, time.Since(start))
		case rec.status >= 400:
			entry.Warnf("Event ID: HTTP_REQUEST, Description: "+description, r.Method, r.URL.Path, rec.status, time.Since(start))
		default:
			entry.Infof("Event ID: HTTP_REQUEST, Description: "+description, r.Method, r.URL.Path, rec.status, time.Since(start))
		}
	})
}
