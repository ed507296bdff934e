package actions

import (
	"context"
	log "log/slog"
	"math"
	"net"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

const gib = 1 << 30

type Field struct {
	Key   string
	Value string
}

type SysinfoOptions struct {
	CPUSample time.Duration
	DiskPath  string
}

// CollectSystemInfo is best effort: a metric that cannot be read is logged
// and left out.
func CollectSystemInfo(ctx context.Context, opts SysinfoOptions) []Field {
	if opts.DiskPath == "" {
		opts.DiskPath = "/"
	}

	var out []Field
	add := func(k, v string) { out = append(out, Field{Key: k, Value: v}) }
	skip := func(metric string, err error) { log.Debug("Skipping metric", "metric", metric, "err", err) }

	add("OS", osName(runtime.GOOS))

	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		skip("host", err)
	} else {
		add("OS Version", strings.TrimSpace(hi.Platform+" "+hi.PlatformVersion))
		add("Release", hi.KernelVersion)
		add("Machine", hi.KernelArch)
	}

	if ci, err := cpu.InfoWithContext(ctx); err != nil || len(ci) == 0 {
		skip("cpu", err)
	} else {
		add("CPU", ci[0].ModelName)
	}

	if n, err := cpu.CountsWithContext(ctx, true); err != nil {
		skip("cores", err)
	} else {
		add("Cores", strconv.Itoa(n))
	}

	if pct, err := cpu.PercentWithContext(ctx, opts.CPUSample, false); err != nil || len(pct) == 0 {
		skip("cpu usage", err)
	} else {
		add("CPU Usage %", round2(pct[0]))
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		skip("memory", err)
	} else {
		add("RAM Total (GB)", round2(float64(vm.Total)/gib))
		add("RAM Used (GB)", round2(float64(vm.Used)/gib))
	}

	if du, err := disk.UsageWithContext(ctx, opts.DiskPath); err != nil {
		skip("disk", err)
	} else {
		add("Disk Total (GB)", round2(float64(du.Total)/gib))
		add("Disk Free (GB)", round2(float64(du.Free)/gib))
	}

	hostname, err := os.Hostname()
	if err != nil {
		skip("hostname", err)
		return out
	}
	add("Hostname", hostname)
	add("Local IP", localIP(hostname))

	return out
}

func osName(goos string) string {
	switch goos {
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	default:
		return goos
	}
}

func localIP(hostname string) string {
	addrs, err := net.LookupHost(hostname)
	if err == nil {
		for _, a := range addrs {
			if ip := net.ParseIP(a); ip != nil && ip.To4() != nil {
				return a
			}
		}
	}
	return "127.0.0.1"
}

func round2(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
