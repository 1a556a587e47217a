package metrics

import (
	"net/http"
	"time"
)

// statusRecorder captures the status code written by a handler. A
// handler that writes a body without calling WriteHeader implicitly
// sends 200, which the zero-value wrote=false path records.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wrote {
		sr.status = code
		sr.wrote = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wrote = true
	return sr.ResponseWriter.Write(b)
}

// HTTPMiddleware instruments a handler with request count, duration
// and in-flight gauges.
func HTTPMiddleware(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reg.InFlightInc()
			defer reg.InFlightDec()

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(recorder, r)

			reg.RecordRequest(r.Method, r.URL.Path, recorder.status, time.Since(start).Seconds())
		})
	}
}
