package api

import (
	"net/http"
	"time"
)

// NewServer wraps the router in an http.Server with sane timeouts. Write
// timeout stays unset because the event stream holds its response open.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
