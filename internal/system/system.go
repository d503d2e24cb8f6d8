package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// DefaultWorkers returns the number of logical CPUs, falling back to the Go
// runtime's view when the host cannot be queried.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// MemorySnapshot is host and process memory at one moment.
type MemorySnapshot struct {
	HostUsedPercent float64
	HostAvailable   uint64
	HeapAlloc       uint64
}

// Memory samples host memory via gopsutil and the Go heap via runtime.
func Memory() (MemorySnapshot, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	snap := MemorySnapshot{HeapAlloc: ms.HeapAlloc}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return snap, fmt.Errorf("read host memory: %w", err)
	}
	snap.HostUsedPercent = vm.UsedPercent
	snap.HostAvailable = vm.Available
	return snap, nil
}

// FindLatest returns the most recently modified file in dir whose name ends
// with one of exts (case-insensitive).
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files in %s", strings.Join(exts, "/"), dir)
	}

	return latestFile, nil
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
