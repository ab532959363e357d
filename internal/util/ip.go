package util

import (
	"net"
	"net/http"
)

// GetClientIP returns the request's client address. The RealIP
// middleware already folds proxy headers into RemoteAddr.
func GetClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
