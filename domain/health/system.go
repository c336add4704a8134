package health

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStats describes the host the server runs on. Fields the platform
// cannot report stay zero.
type SystemStats struct {
	CPUs          int     `json:"cpus"`
	Load1         float64 `json:"load1"`
	Load5         float64 `json:"load5"`
	Load15        float64 `json:"load15"`
	MemoryUsedPct float64 `json:"memory_used_pct"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
}

var (
	loadAvg    = load.AvgWithContext
	virtualMem = mem.VirtualMemoryWithContext
)

func systemStats(ctx context.Context) SystemStats {
	st := SystemStats{CPUs: runtime.NumCPU()}
	if avg, err := loadAvg(ctx); err == nil {
		st.Load1, st.Load5, st.Load15 = avg.Load1, avg.Load5, avg.Load15
	}
	if vm, err := virtualMem(ctx); err == nil {
		st.MemoryUsedPct = vm.UsedPercent
		st.MemoryTotalMB = vm.Total / 1024 / 1024
	}
	return st
}
