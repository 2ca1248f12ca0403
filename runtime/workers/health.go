package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
)

// HealthWorker periodically logs the process's own cpu and memory
// footprint plus system memory pressure. Pure observability; nothing
// reads these values back.
type HealthWorker struct {
	log      *slog.Logger
	interval time.Duration
}

func NewHealthWorker(log *slog.Logger, interval time.Duration) *HealthWorker {
	return &HealthWorker{log: log, interval: interval}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health reporting")
			return nil
		case <-ticker.C:
			cpu, err := proc.CPUPercent()
			if err != nil {
				w.log.Debug("Error while reading process cpu usage", "err", err)
				continue
			}
			ram, err := proc.MemoryPercent()
			if err != nil {
				w.log.Debug("Error while reading process ram usage", "err", err)
				continue
			}
			vm, err := mem.VirtualMemory()
			if err != nil {
				w.log.Debug("Error while reading system memory", "err", err)
				continue
			}
			w.log.Info("health",
				"cpu_pct", cpu,
				"ram_pct", ram,
				"sys_mem_used_pct", vm.UsedPercent)
		}
	}
}
