package server

import (
	"fmt"
	"net"
	"net/http"
)

// LocalBaseURL builds the statically-detected base URL for local runs, using
// the address of the default outbound interface so links work from other
// devices on the network.
func LocalBaseURL(port int) BaseURLFunc {
	base := fmt.Sprintf("http://%s:%d", outboundIP(), port)
	return func(_ *http.Request) string {
		return base
	}
}

// RequestBaseURL derives the base URL from each incoming request, for hosted
// deployments where the public hostname is only known per request.
func RequestBaseURL() BaseURLFunc {
	return func(r *http.Request) string {
		scheme := "http"
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		} else if r.TLS != nil {
			scheme = "https"
		}
		return scheme + "://" + r.Host
	}
}

// outboundIP detects the local address used to reach the internet. No packet
// is sent; the UDP "connection" just resolves routing.
func outboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "localhost"
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "localhost"
}
