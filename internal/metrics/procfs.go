package metrics

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/procfs"
)

var (
	fdSelfGauge  = NewGauge("fd_self")
	memSelfGauge = NewGauge("mem_self")
	cpuSelfGauge = NewGauge("cpu_self")
)

// OpenFDs returns the number of descriptors this process has open.
// It fails where /proc is not available.
func OpenFDs() (int, error) {
	proc, err := procfs.Self()
	if err != nil {
		return 0, fmt.Errorf("get self proc: %w", err)
	}

	n, err := proc.FileDescriptorsLen()
	if err != nil {
		return 0, fmt.Errorf("count file descriptors: %w", err)
	}

	return n, nil
}

// InitProcStat samples the process stats every interval until ctx is done.
func InitProcStat(ctx context.Context, interval time.Duration) error {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return fmt.Errorf("create procfs: %w", err)
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			if err := getSelfStat(fs); err != nil {
				log.Printf("failed to get stat: %v", err)
			}
		}
	}()

	return nil
}

func getSelfStat(fs procfs.FS) error {
	proc, err := fs.Self()
	if err != nil {
		return fmt.Errorf("get stat: %w", err)
	}

	stat, err := proc.Stat()
	if err != nil {
		return fmt.Errorf("get stat: %w", err)
	}

	cpuSelfGauge.Set(stat.CPUTime(), "total")
	memSelfGauge.Set(float64(stat.ResidentMemory()), "resident")
	memSelfGauge.Set(float64(stat.VirtualMemory()), "virtual")

	fds, err := proc.FileDescriptorsLen()
	if err != nil {
		return fmt.Errorf("get stat: %w", err)
	}
	fdSelfGauge.Set(float64(fds), "open")

	return nil
}
