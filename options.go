package bqueue

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// TimeoutPolicy selects how TakeTimeout spends its budget when a wait wakes
// without finding a value.
type TimeoutPolicy int

const (
	// DeadlinePolicy fixes one absolute deadline when TakeTimeout starts and
	// shares it across every wake and recheck. A call never blocks longer than
	// its budget.
	DeadlinePolicy TimeoutPolicy = iota

	// PerWaitPolicy grants the full budget to each suspension. A wake that
	// finds the queue still empty (another consumer won the value, or a
	// spurious wake) restarts the clock, so the call may block longer than
	// the budget.
	PerWaitPolicy
)

func (p TimeoutPolicy) String() string {
	switch p {
	case DeadlinePolicy:
		return "deadline"
	case PerWaitPolicy:
		return "per-wait"
	default:
		return fmt.Sprintf("TimeoutPolicy(%d)", int(p))
	}
}

// ParseTimeoutPolicy maps "deadline" or "per-wait" to a TimeoutPolicy.
func ParseTimeoutPolicy(s string) (TimeoutPolicy, error) {
	switch s {
	case "deadline":
		return DeadlinePolicy, nil
	case "per-wait":
		return PerWaitPolicy, nil
	}
	return 0, fmt.Errorf("bqueue: unknown timeout policy %q", s)
}

type config struct {
	logger logrus.FieldLogger
	policy TimeoutPolicy
}

// Option configures a Queue at construction.
type Option func(*config)

// WithLogger routes the queue's diagnostics to l. The default is
// logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTimeoutPolicy selects the TakeTimeout policy. The default is
// DeadlinePolicy.
func WithTimeoutPolicy(p TimeoutPolicy) Option {
	return func(c *config) { c.policy = p }
}

func newConfig(opts []Option) config {
	c := config{
		logger: logrus.StandardLogger(),
		policy: DeadlinePolicy,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
