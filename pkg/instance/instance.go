package instance

import "os"

// GetID returns this process's instance identifier. Multi-instance deploys
// set STOCKTRAIL_INSTANCE_ID so log lines and bridge origins stay tellable
// apart; everything else gets the local default.
func GetID() string {
	if id := os.Getenv("STOCKTRAIL_INSTANCE_ID"); id != "" {
		return id
	}
	return "local"
}
