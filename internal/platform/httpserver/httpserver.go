package httpserver

import (
	"net/http"
	"time"

	"tally/internal/platform/config"
)

const readHeaderTimeout = 5 * time.Second

// New builds the admin HTTP server from the server section of the config.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}
