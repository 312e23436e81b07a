package pipeline

import (
	"strings"
	"sync/atomic"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

// Cost is estimated by the loop, not the adapters: a flat text-length rate
// per call plus a rough token count. Good enough for a run report, not for
// billing.
const (
	costPerKiloChars = 0.01
	tokensPerWord    = 1.3
)

// usageTracker is the accumulator shared across all pipelines. Counters are
// atomic; cost is stored in millionths of a dollar to stay lock-free.
type usageTracker struct {
	requests atomic.Int64
	failures atomic.Int64
	tokens   atomic.Int64
	microUSD atomic.Int64
}

// record adds one adapter call's estimated usage.
func (u *usageTracker) record(ok bool, texts ...string) {
	u.requests.Add(1)
	if !ok {
		u.failures.Add(1)
	}

	chars, words := 0, 0
	for _, t := range texts {
		chars += len(t)
		words += len(strings.Fields(t))
	}
	u.tokens.Add(int64(float64(words) * tokensPerWord))
	u.microUSD.Add(int64(float64(chars) / 1000 * costPerKiloChars * 1e6))
}

func (u *usageTracker) snapshot() model.UsageSnapshot {
	return model.UsageSnapshot{
		Requests: u.requests.Load(),
		Failures: u.failures.Load(),
		Tokens:   u.tokens.Load(),
		CostUSD:  float64(u.microUSD.Load()) / 1e6,
	}
}
