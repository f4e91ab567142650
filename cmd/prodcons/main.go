// Package main runs a producer/consumer demonstration of the bounded queue.
//
// Producers push disjoint integer ranges through a small bqueue.Queue while
// consumers poll it with TakeTimeout. The last producer to finish closes the
// queue; consumers stop once it is drained. The run fails if any value was
// lost or delivered twice.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xyhelper/bqueue"
)

// CLIConfig holds the demo settings.
type CLIConfig struct {
	capacity      int
	producers     int
	consumers     int
	items         int
	poll          time.Duration
	produceDelay  time.Duration
	consumeDelay  time.Duration
	timeoutPolicy string
	logLevel      string
}

// Result summarises a run.
type Result struct {
	Produced  int
	Consumed  int
	Timeouts  int
	HighWater int
	Elapsed   time.Duration
}

// parseCLIFlags parses args into a CLIConfig.
func parseCLIFlags(args []string, output io.Writer) (*CLIConfig, error) {
	config := &CLIConfig{}
	fs := flag.NewFlagSet("prodcons", flag.ContinueOnError)
	fs.SetOutput(output)

	// Queue configuration
	fs.IntVar(&config.capacity, "capacity", 5, "Queue capacity")
	fs.StringVar(&config.timeoutPolicy, "timeout-policy", "deadline", "TakeTimeout policy (deadline, per-wait)")

	// Workload
	fs.IntVar(&config.producers, "producers", 1, "Number of producer goroutines")
	fs.IntVar(&config.consumers, "consumers", 1, "Number of consumer goroutines")
	fs.IntVar(&config.items, "items", 100, "Values sent by each producer")
	fs.DurationVar(&config.poll, "poll", 50*time.Millisecond, "Consumer TakeTimeout budget")
	fs.DurationVar(&config.produceDelay, "produce-delay", 0, "Pause after each Put")
	fs.DurationVar(&config.consumeDelay, "consume-delay", 0, "Pause after each Take")

	// Logging
	fs.StringVar(&config.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return config, nil
}

// validate checks the configuration for values the demo cannot run with.
func (c *CLIConfig) validate() error {
	if c.capacity < 1 {
		return fmt.Errorf("capacity must be positive")
	}
	if c.producers < 1 || c.consumers < 1 {
		return fmt.Errorf("need at least one producer and one consumer")
	}
	if c.items < 0 {
		return fmt.Errorf("items cannot be negative")
	}
	if c.poll <= 0 {
		return fmt.Errorf("poll must be positive")
	}
	if _, err := bqueue.ParseTimeoutPolicy(c.timeoutPolicy); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.logLevel); err != nil {
		return err
	}
	return nil
}

// run executes the demo described by config.
func run(config *CLIConfig, logger logrus.FieldLogger) (Result, error) {
	policy, err := bqueue.ParseTimeoutPolicy(config.timeoutPolicy)
	if err != nil {
		return Result{}, err
	}
	q, err := bqueue.New[int](config.capacity,
		bqueue.WithLogger(logger),
		bqueue.WithTimeoutPolicy(policy))
	if err != nil {
		return Result{}, fmt.Errorf("create queue: %w", err)
	}

	start := time.Now()
	var (
		producers sync.WaitGroup
		consumers sync.WaitGroup
		counts    = newTally(config.producers * config.items)
	)

	for p := 0; p < config.producers; p++ {
		producers.Add(1)
		go func(id int) {
			defer producers.Done()
			base := id * config.items
			for i := 0; i < config.items; i++ {
				if err := q.Put(base + i); err != nil {
					logger.WithFields(logrus.Fields{
						"producer": id,
						"error":    err.Error(),
					}).Error("Put failed")
					return
				}
				if config.produceDelay > 0 {
					time.Sleep(config.produceDelay)
				}
			}
			logger.WithField("producer", id).Debug("Producer finished")
		}(p)
	}
	go func() {
		producers.Wait()
		q.Close()
	}()

	errs := make(chan error, config.consumers)
	for c := 0; c < config.consumers; c++ {
		consumers.Add(1)
		go func(id int) {
			defer consumers.Done()
			if err := consume(id, q, config, counts, logger); err != nil {
				errs <- err
			}
		}(c)
	}
	consumers.Wait()
	close(errs)

	res := Result{
		Produced:  config.producers * config.items,
		Timeouts:  counts.timeouts,
		HighWater: q.HighWater(),
		Elapsed:   time.Since(start),
	}
	if err := <-errs; err != nil {
		return res, err
	}
	for v, n := range counts.seen {
		res.Consumed += n
		if n != 1 {
			return res, fmt.Errorf("value %d delivered %d times", v, n)
		}
	}
	if res.Consumed != res.Produced {
		return res, fmt.Errorf("consumed %d of %d values", res.Consumed, res.Produced)
	}
	if res.HighWater > config.capacity {
		return res, fmt.Errorf("queue held %d values, capacity %d", res.HighWater, config.capacity)
	}
	return res, nil
}

// valueSource is the consumer side of bqueue.Queue[int].
type valueSource interface {
	TakeTimeout(d time.Duration) (int, error)
}

// tally records what consumers received.
type tally struct {
	mu       sync.Mutex
	seen     map[int]int
	timeouts int
}

func newTally(size int) *tally {
	return &tally{seen: make(map[int]int, size)}
}

// consume polls src until it reports ErrClosed. Any error other than a
// timeout or closure stops the consumer and is returned.
func consume(id int, src valueSource, config *CLIConfig, counts *tally, logger logrus.FieldLogger) error {
	received := 0
	for {
		v, err := src.TakeTimeout(config.poll)
		switch {
		case err == nil:
			received++
			counts.mu.Lock()
			counts.seen[v]++
			counts.mu.Unlock()
			if config.consumeDelay > 0 {
				time.Sleep(config.consumeDelay)
			}
		case bqueue.IsTimeout(err):
			counts.mu.Lock()
			counts.timeouts++
			counts.mu.Unlock()
			logger.WithField("consumer", id).Debug("No value within poll budget")
		case bqueue.IsClosed(err):
			logger.WithFields(logrus.Fields{
				"consumer": id,
				"received": received,
			}).Debug("Consumer finished")
			return nil
		default:
			logger.WithFields(logrus.Fields{
				"consumer": id,
				"received": received,
				"error":    err.Error(),
			}).Error("Take failed")
			return fmt.Errorf("consumer %d: %w", id, err)
		}
	}
}

func main() {
	config, err := parseCLIFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if err := config.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, _ := logrus.ParseLevel(config.logLevel)
	logger.SetLevel(level)

	logger.WithFields(logrus.Fields{
		"capacity":       config.capacity,
		"producers":      config.producers,
		"consumers":      config.consumers,
		"items":          config.items,
		"timeout_policy": config.timeoutPolicy,
	}).Info("Starting producer/consumer run")

	res, err := run(config, logger)
	fields := logrus.Fields{
		"produced":   res.Produced,
		"consumed":   res.Consumed,
		"timeouts":   res.Timeouts,
		"high_water": res.HighWater,
		"elapsed":    res.Elapsed,
	}
	if err != nil {
		logger.WithFields(fields).WithError(err).Error("Run failed")
		os.Exit(1)
	}
	logger.WithFields(fields).Info("Run complete")
}
