package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo names this process to the server so its inserts can be told
// apart in system.query_log. Blank values are left out.
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	var ci clickhouse.ClientInfo
	for _, p := range [][2]string{
		{"tomotrip", tag},
		{"role", role},
		{"go", runtime.Version()},
		{"commit", revision()},
		{"host", host},
	} {
		if v := strings.TrimSpace(p[1]); v != "" {
			ci.Products = append(ci.Products, struct{ Name, Version string }{p[0], v})
		}
	}
	return ci
}

// revision is the short VCS hash stamped by the go tool, empty outside a checkout
func revision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value[:min(7, len(s.Value))]
		}
	}
	return ""
}
