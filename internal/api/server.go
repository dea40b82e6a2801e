package api

import (
	"net/http"
	"time"

	"github.com/abhisek/bayesdx/internal/config"
)

// NewServer builds an HTTP server for handler from the server config.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	readHeader := cfg.ReadHeaderTimeout
	if readHeader <= 0 {
		readHeader = 5 * time.Second
	}
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeader,
	}
}
