package respond

import (
	"regexp"
)

var (
	// Feed endpoints occasionally carry basic-auth credentials in the URL;
	// those must never reach logs.
	urlCredentialsPattern = regexp.MustCompile(`://([^:/@\s]+):([^@/\s]+)@`)

	// Bearer tokens from misconfigured upstreams.
	bearerTokenPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._\-]+`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = urlCredentialsPattern.ReplaceAllString(msg, "://$1:****@")
	msg = bearerTokenPattern.ReplaceAllString(msg, "Bearer ****")
	return msg
}
