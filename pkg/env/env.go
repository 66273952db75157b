package env

import "os"

// Get returns the value of the given environment variable, preferring the
// MOKOLO_-prefixed variant, or the fallback when neither is set.
func Get(key, fallback string) string {
	if val := os.Getenv("MOKOLO_" + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
