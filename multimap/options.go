package multimap

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"MVDB/log"
)

// QueueType decides which value under a key Pop removes next.
type QueueType int

const (
	// LIFO pops the most recently set value first.
	LIFO QueueType = iota
	// FIFO pops the oldest value first.
	FIFO
)

func (q QueueType) String() string {
	switch q {
	case LIFO:
		return "lifo"
	case FIFO:
		return "fifo"
	}
	return fmt.Sprintf("QueueType(%d)", int(q))
}

func ParseQueueType(s string) (QueueType, error) {
	switch strings.ToLower(s) {
	case "lifo":
		return LIFO, nil
	case "fifo":
		return FIFO, nil
	}
	return LIFO, errors.Errorf("unknown queue type %q", s)
}

type Options struct {
	// iterate and pop from the largest key down
	reverse bool
	queue   QueueType
	logger  log.Logger
}

func (o *Options) WithReverseOrder(reverse bool) *Options {
	o.reverse = reverse
	return o
}

func (o *Options) WithQueueType(queue QueueType) *Options {
	o.queue = queue
	return o
}

func (o *Options) WithLogger(logger log.Logger) *Options {
	o.logger = logger
	return o
}

func DefaultOptions() *Options {
	return &Options{queue: LIFO, logger: log.Nop()}
}
