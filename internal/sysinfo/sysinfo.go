// Package sysinfo captures the run-level environment facts that get
// broadcast onto every aggregated record: VCS identity, platform, processor,
// available CPU and RAM, timestamps and the harness version.
package sysinfo

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"gobench/internal/git"
)

// Collect gathers the run metadata exactly once per run. VCS facts are nil
// outside a repository rather than errors; hardware facts fall back to
// runtime values when the platform probe fails. Caller-supplied extras are
// merged in last and win on key collision.
func Collect(ctx context.Context, version string, extra map[string]any) map[string]any {
	meta := map[string]any{
		"timestamp":      time.Now().Unix(),
		"branch":         nil,
		"commit":         nil,
		"version":        version,
		"go_version":     runtime.Version(),
		"available_cpus": availableCPUs(),
		"available_ram":  availableRAM(),
		"platform":       platformString(),
		"processor":      processorString(),
	}

	g := git.NewClient("")
	if branch, err := g.Branch(ctx); err == nil {
		meta["branch"] = branch
	} else {
		slog.Debug("branch name unavailable", "error", err)
	}
	if commit, err := g.Commit(ctx); err == nil {
		meta["commit"] = commit
	} else {
		slog.Debug("commit id unavailable", "error", err)
	}

	for k, v := range extra {
		meta[k] = v
	}
	return meta
}

func availableCPUs() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

func availableRAM() string {
	vm, err := mem.VirtualMemory()
	if err != nil {
		slog.Debug("memory probe failed", "error", err)
		return "unknown"
	}
	return humanize.IBytes(vm.Available)
}

func platformString() string {
	info, err := host.Info()
	if err != nil || info.Platform == "" {
		return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch)
}

func processorString() string {
	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		return runtime.GOARCH
	}
	return infos[0].ModelName
}
