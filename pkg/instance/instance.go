package instance

import "os"

// GetID names the running process for logs. Platform dyno names win over the
// explicit BOOKARO_INSTANCE_ID; local runs report "local".
func GetID() string {
	for _, key := range []string{"DYNO", "BOOKARO_INSTANCE_ID"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
