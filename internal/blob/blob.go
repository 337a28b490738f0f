package blob

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUploadFailed wraps transient upload failures. The caller re-submits;
// nothing here retries.
var ErrUploadFailed = errors.New("image upload failed")

// Store uploads a binary asset and returns a stable, publicly resolvable
// URL for it.
type Store interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Key builds the upload path: <collection>/<uploadMillis>-<filename>.
// The timestamp prefix is what keeps keys from colliding; content is not
// hashed.
func Key(collection, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s", collection, now.UnixMilli(), filename)
}
