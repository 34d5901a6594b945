package sentry

import (
	"context"
	"sync"

	"github.com/getsentry/raven-go"
	"github.com/goadesign/goa"
	"github.com/goadesign/goa/middleware"
)

// Client encapsulates client to Sentry service
// also has mutex which controls access to the client
type Client struct {
	c   *raven.Client
	mux sync.Mutex
}

var (
	sentryClient *Client
	clientMux    sync.RWMutex
)

// Sentry returns client declared inside package. It is nil until
// InitializeSentryClient was called with a DSN.
func Sentry() *Client {
	clientMux.RLock()
	defer clientMux.RUnlock()
	return sentryClient
}

// InitializeSentryClient initializes sentry client. An empty DSN disables
// the reporting.
func InitializeSentryClient(dsn, release, environment string) error {
	if dsn == "" {
		return nil
	}
	c, err := raven.New(dsn)
	if err != nil {
		return err
	}

	c.SetRelease(release)
	c.SetEnvironment(environment)
	clientMux.Lock()
	defer clientMux.Unlock()
	sentryClient = &Client{
		c: c,
	}
	return nil
}

// CaptureError sends error 'err' to Sentry, tagged with the request id and
// the controller action found in the context provided. It does nothing on a
// nil client.
func (c *Client) CaptureError(ctx context.Context, err error) {
	if c == nil || err == nil {
		return
	}
	tags := extractRequestInfo(ctx)

	c.mux.Lock()
	defer c.mux.Unlock()
	c.c.CaptureError(err, tags)
}

// extractRequestInfo reads the context and returns the tags describing the
// request being handled
func extractRequestInfo(ctx context.Context) map[string]string {
	tags := map[string]string{}
	if ctx == nil {
		return tags
	}
	if reqID := middleware.ContextRequestID(ctx); reqID != "" {
		tags["req_id"] = reqID
	}
	if ctrl := goa.ContextController(ctx); ctrl != "" {
		tags["controller"] = ctrl
	}
	if action := goa.ContextAction(ctx); action != "" {
		tags["action"] = action
	}
	return tags
}
