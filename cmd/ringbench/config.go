package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"
)

type Config struct {
	// Capacity of the SPSC queue under test.
	Capacity uint64
	// Items is the number of values moved through the queue.
	Items int
	// Writers is the number of goroutines writing to the recorder.
	Writers int
	// RecorderCapacity is the number of values the recorder keeps.
	RecorderCapacity uint64
	// Timeout bounds the whole run.
	Timeout time.Duration
	// LogLevel is the minimum level logged.
	LogLevel slog.Level
}

func NewDefaultConfig() *Config {
	return &Config{
		Capacity:         1 << 12,
		Items:            10_000_000,
		Writers:          8,
		RecorderCapacity: 1 << 10,
		Timeout:          time.Minute,
		LogLevel:         slog.LevelInfo,
	}
}

func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Uint64Var(&c.Capacity, "capacity", c.Capacity, "SPSC queue capacity")
	fs.IntVar(&c.Items, "items", c.Items, "number of items moved through the queue")
	fs.IntVar(&c.Writers, "writers", c.Writers, "number of recorder writers")
	fs.Uint64Var(&c.RecorderCapacity, "recorder-capacity", c.RecorderCapacity, "number of values kept by the recorder")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "maximum duration of the run")
	fs.TextVar(&c.LogLevel, "log-level", c.LogLevel, "minimum log level (DEBUG, INFO, WARN, ERROR)")
}

func (c *Config) Validate() error {
	var errs []error
	if c.Capacity == 0 {
		errs = append(errs, errors.New("capacity must be > 0"))
	}
	if c.Items <= 0 {
		errs = append(errs, errors.New("items must be > 0"))
	}
	if c.Writers <= 0 {
		errs = append(errs, errors.New("writers must be > 0"))
	}
	if c.RecorderCapacity == 0 {
		errs = append(errs, errors.New("recorder-capacity must be > 0"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be > 0"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
