package metric

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fabric8-services/fabric8-tracker/log"
	"github.com/goadesign/goa"
)

// Recorder is a goa middleware recording the count, duration and response
// size of the requests handled by the controllers, labeled by HTTP method,
// entity (the controller name without the "Controller" suffix) and status
// class.
func Recorder() goa.Middleware {
	return func(h goa.Handler) goa.Handler {
		return func(ctx context.Context, rw http.ResponseWriter, req *http.Request) error {
			startTime := time.Now()
			err := h(ctx, rw, req)
			recordReqsTotal(ctx, req)
			recordReqDuration(ctx, req, startTime)
			recordResSize(ctx, req)
			return err
		}
	}
}

func recordReqsTotal(ctx context.Context, req *http.Request) {
	method, entity, code := labelsVal(ctx, req)
	log.Debug(ctx, nil, "method=%s, entity=%s, code=%s", method, entity, code)
	reportRequestsTotal(method, entity, code)
}

func recordReqDuration(ctx context.Context, req *http.Request, startTime time.Time) {
	method, entity, code := labelsVal(ctx, req)
	reportRequestDuration(method, entity, code, startTime)
}

func recordResSize(ctx context.Context, req *http.Request) {
	method, entity, code := labelsVal(ctx, req)
	size := 0
	if resp := goa.ContextResponse(ctx); resp != nil {
		size = resp.Length
	}
	reportResponseSize(method, entity, code, size)
}

func labelsVal(ctx context.Context, req *http.Request) (method, entity, code string) {
	method = methodVal(req.Method)
	entity = entityVal(goa.ContextController(ctx))
	if resp := goa.ContextResponse(ctx); resp != nil {
		code = codeVal(resp.Status)
	}
	return method, entity, code
}

func methodVal(method string) string {
	return strings.ToLower(method)
}

func entityVal(ctrl string) string {
	if strings.HasSuffix(ctrl, "Controller") {
		return strings.ToLower(strings.TrimSuffix(ctrl, "Controller"))
	}
	return ""
}

func codeVal(code int) string {
	if code <= 0 {
		return ""
	}
	return strconv.Itoa(code)[:1] + "xx"
}
