// Package status serves the bot's health and version over HTTP.
package status

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Readiness reports whether the bot is connected and knows who it is.
type Readiness interface {
	Ready() bool
}

// Handler returns the status routes:
//
//	GET /healthz  200 "ok" once r is ready, 503 before
//	GET /version  the build version
func Handler(r Readiness, version string) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if !r.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintln(w, "starting")
			return
		}
		fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)

	router.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, version)
	}).Methods(http.MethodGet)

	return router
}
