package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aradilov/ringcursor"
)

const meterName = "github.com/aradilov/ringcursor"

// Metrics exports queue and recorder statistics as observable counters.
type Metrics struct {
	meter metric.Meter
	l     *Logger

	regs []metric.Registration
}

// NewMetrics uses the global meter provider when mp is nil.
func NewMetrics(mp metric.MeterProvider, l *Logger) *Metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	return &Metrics{
		meter: mp.Meter(meterName),
		l:     l,
	}
}

func (m *Metrics) counter(name, desc string) (metric.Int64ObservableCounter, error) {
	c, err := m.meter.Int64ObservableCounter(name, metric.WithDescription(desc))
	if err != nil {
		return nil, fmt.Errorf("creating counter %s: %w", name, err)
	}
	if m.l != nil {
		m.l.Debug("created counter", "name", name)
	}
	return c, nil
}

// ObserveSPSC registers the counters of an SPSC queue under the given name.
func (m *Metrics) ObserveSPSC(name string, stats func() ringcursor.SPSCStats) error {
	enq, err := m.counter("ringcursor.spsc.enqueue_attempts", "Enqueue calls")
	if err != nil {
		return err
	}
	full, err := m.counter("ringcursor.spsc.enqueue_full", "Enqueue calls that found the queue full")
	if err != nil {
		return err
	}
	deq, err := m.counter("ringcursor.spsc.dequeue_attempts", "Dequeue calls")
	if err != nil {
		return err
	}
	empty, err := m.counter("ringcursor.spsc.dequeue_empty", "Dequeue calls that found the queue empty")
	if err != nil {
		return err
	}
	timeout, err := m.counter("ringcursor.spsc.timeouts", "Waits ended by their context")
	if err != nil {
		return err
	}

	attrs := metric.WithAttributes(attribute.String("queue", name))
	reg, err := m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		st := stats()
		o.ObserveInt64(enq, int64(st.EnqueueAttempts), attrs)
		o.ObserveInt64(full, int64(st.EnqueueFailedQIsFull), attrs)
		o.ObserveInt64(deq, int64(st.DequeueAttempts), attrs)
		o.ObserveInt64(empty, int64(st.DequeueFailedQIsEmpty), attrs)
		o.ObserveInt64(timeout, int64(st.Timeout), attrs)
		return nil
	}, enq, full, deq, empty, timeout)
	if err != nil {
		return fmt.Errorf("registering spsc %s: %w", name, err)
	}

	m.regs = append(m.regs, reg)
	return nil
}

// ObserveRecorder registers the counters of a Recorder under the given name.
func (m *Metrics) ObserveRecorder(name string, stats func() ringcursor.RecorderStats) error {
	recorded, err := m.counter("ringcursor.recorder.recorded", "Values recorded")
	if err != nil {
		return err
	}
	overwritten, err := m.counter("ringcursor.recorder.overwritten", "Values overwritten by newer ones")
	if err != nil {
		return err
	}

	attrs := metric.WithAttributes(attribute.String("recorder", name))
	reg, err := m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		st := stats()
		o.ObserveInt64(recorded, int64(st.Recorded), attrs)
		o.ObserveInt64(overwritten, int64(st.Overwritten), attrs)
		return nil
	}, recorded, overwritten)
	if err != nil {
		return fmt.Errorf("registering recorder %s: %w", name, err)
	}

	m.regs = append(m.regs, reg)
	return nil
}

// Close unregisters every callback.
func (m *Metrics) Close() error {
	var errs []error
	for _, reg := range m.regs {
		if err := reg.Unregister(); err != nil {
			errs = append(errs, err)
		}
	}
	m.regs = nil
	return errors.Join(errs...)
}
