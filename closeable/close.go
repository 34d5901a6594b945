package closeable

import (
	"context"
	"io"
	"reflect"

	"github.com/fabric8-services/fabric8-tracker/log"
)

// Close closes the given resource and logs the error if something wrong
// happened. Nil closers, including typed nil pointers, are ignored.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if v := reflect.ValueOf(c); v.Kind() == reflect.Ptr && v.IsNil() {
		return
	}
	if err := c.Close(); err != nil {
		log.Error(ctx, map[string]interface{}{"error": err.Error()}, "error while closing the resource")
	}
}
