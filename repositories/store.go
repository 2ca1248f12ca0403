package repositories

import (
	errs "chat-mesh/errors"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// wrapStoreErr maps store-level failures onto the repository error
// kinds. Missing keys become ErrNotFound; domain sentinels pass
// through; anything else (conflicts, I/O) is a transient failure with
// an uncertain outcome, flagged so callers can decide on retries.
func wrapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return errs.ErrNotFound
	case errors.Is(err, errs.ErrUserAlreadyExists),
		errors.Is(err, errs.ErrNotFound):
		return err
	default:
		return fmt.Errorf("%w: %v", errs.ErrTransientStore, err)
	}
}
