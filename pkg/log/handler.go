package log

import (
	"github.com/cockroachdb/errors"
)

// extractStacktrace pulls the first recorded stack trace out of a
// cockroachdb/errors error chain. Returns "" when none is attached.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
