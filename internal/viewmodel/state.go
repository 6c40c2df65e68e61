// Package viewmodel holds the observable state behind each screen:
// the fetched data plus loading and error flags. Every fetch writes
// to a slot owned exclusively by its own view-model instance, and
// aggregates always recompute from the full in-memory list.
package viewmodel

import (
	"errors"
	"fmt"

	"smartspend/internal/api"
)

// Snapshot is one consistent read of a view-model's slot.
type Snapshot[T any] struct {
	Loading bool
	Err     string
	Data    T
}

// errMessage converts a fetch error into the inline message that
// replaces the loading indicator. Errors stop here; none propagate
// past the view-model and none are retried automatically.
func errMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case api.KindNetwork:
			return fmt.Sprintf("Network error: %v", apiErr.Err)
		case api.KindUnauthorized:
			return "Not logged in"
		case api.KindServer:
			return fmt.Sprintf("HTTP error: status %d", apiErr.Status)
		case api.KindDecode:
			return fmt.Sprintf("Failed to decode response: %v", apiErr.Err)
		}
	}
	return err.Error()
}
