// Package raw reads LOG_* style bootstrap settings straight from the environment.
// The logger depends on it, so it must not log.
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefix over the environment
type Conf string

// New returns a root Conf
func New() Conf { return "" }

// Prefix returns a child Conf, e.g. "LOG_"
func (c Conf) Prefix(p string) Conf { return c + Conf(p) }

// Get returns the trimmed value of key, def when blank
func (c Conf) Get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(string(c) + key)); v != "" {
		return v
	}
	return def
}

// GetBool accepts strconv spellings plus yes/no; anything else is def
func (c Conf) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(c.Get(key, "")); v {
	case "":
		return def
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	default:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
}

// GetInt parses a non negative integer; anything else is def
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.Get(key, ""))
	if err != nil || n < 0 {
		return def
	}
	return n
}
