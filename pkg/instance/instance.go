package instance

import "os"

// GetID identifies this process in logs and lock ownership. LUXE_WORKER_ID
// wins, then the host name, then a fixed default.
func GetID() string {
	if id := os.Getenv("LUXE_WORKER_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
