package domain

import (
	"fmt"
	"unicode/utf8"
)

// checkText rejects values that are not valid UTF-8. Snapshots are JSON, so
// such bytes would come back altered after a save and reload.
func checkText(field string, values ...string) error {
	for _, v := range values {
		if !utf8.ValidString(v) {
			return fmt.Errorf("%s is not valid UTF-8: %w", field, ErrInvalidInput)
		}
	}
	return nil
}
