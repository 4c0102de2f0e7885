package metrics

import (
	"time"

	obserrors "github.com/contaflow/poliza-api/internal/observability/errors"
	"github.com/contaflow/poliza-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultRetry   = "retry"
)

// JobMetric captures details about an invoice job lifecycle event.
type JobMetric struct {
	OutputMode string
	Transition string
	Result     string
	Attempt    int
	Duration   time.Duration
	Err        error
}

// EmitJobLifecycle emits standardised job lifecycle metrics.
func EmitJobLifecycle(sink statsd.Sink, in JobMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"output_mode": in.OutputMode,
		"transition":  in.Transition,
		"result":      in.Result,
	}

	if in.Err != nil && in.Result != ResultSuccess {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("job.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("job.duration", in.Duration, CloneTags(tags))
	}
}

// EmitQueueDepth reports the current number of waiting jobs.
func EmitQueueDepth(sink statsd.Sink, depth int) {
	if sink == nil {
		return
	}
	sink.Gauge("queue.depth", float64(depth), nil)
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
