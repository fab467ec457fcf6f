package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"
)

var (
	startTime    = time.Now()
	gaugesLocker = &sync.RWMutex{}
	gauges       = []*Gauge{}
)

func NewGauge(name string) *Gauge {
	gauge := &Gauge{
		name: name,
	}

	gaugesLocker.Lock()
	defer gaugesLocker.Unlock()

	gauges = append(gauges, gauge)

	return gauge
}

// WriteMetrics writes every record of every gauge as CSV.
func WriteMetrics(w io.Writer) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write([]string{"name", "label", "value", "time"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	gaugesLocker.RLock()
	defer gaugesLocker.RUnlock()

	for _, gauge := range gauges {
		for _, record := range gauge.getRecords() {
			err := csvWriter.Write([]string{
				gauge.name,
				record.label,
				strconv.FormatFloat(record.value, 'f', -1, 64),
				strconv.FormatInt(record.time.Sub(startTime).Nanoseconds(), 10),
			})
			if err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

type record struct {
	value float64
	time  time.Time
	label string
}

type Gauge struct {
	name          string
	recordsLocker sync.RWMutex
	records       []record
}

func (g *Gauge) Set(value float64, label string) {
	g.recordsLocker.Lock()
	defer g.recordsLocker.Unlock()

	g.records = append(g.records, record{
		value: value,
		time:  time.Now(),
		label: label,
	})
}

func (g *Gauge) getRecords() []record {
	g.recordsLocker.RLock()
	defer g.recordsLocker.RUnlock()

	return append([]record(nil), g.records...)
}

// Stopwatch records how long f took, in nanoseconds, and returns it.
func (g *Gauge) Stopwatch(f func(), label string) time.Duration {
	start := time.Now()
	f()
	elapsed := time.Since(start)
	g.Set(float64(elapsed.Nanoseconds()), label)

	return elapsed
}

// Len is the number of records of the gauge.
func (g *Gauge) Len() int {
	g.recordsLocker.RLock()
	defer g.recordsLocker.RUnlock()

	return len(g.records)
}
