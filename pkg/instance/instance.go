package instance

import "os"

// GetID returns the worker instance identifier. Deploys set
// MOKOLO_INSTANCE_ID; otherwise the hostname stands in, so replica logs stay
// distinguishable on container platforms.
func GetID() string {
	if id := os.Getenv("MOKOLO_INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
