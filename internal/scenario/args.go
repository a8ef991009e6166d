package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/statbook/internal/stats"
)

// argReader reads typed step arguments. The first problem is kept in err and
// later reads return zero values, so an op can read everything and check
// once.
type argReader struct {
	args map[string]any
	err  error
}

func (r *argReader) fail(format string, a ...any) {
	if r.err == nil {
		r.err = fmt.Errorf(format, a...)
	}
}

func (r *argReader) str(k string) string {
	v, ok := r.args[k]
	if !ok {
		r.fail("missing arg %q", k)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail("arg %q: want string, got %T", k, v)
	}
	return s
}

func (r *argReader) optStr(k string) string {
	if _, ok := r.args[k]; !ok {
		return ""
	}
	return r.str(k)
}

func (r *argReader) integer(k string) int {
	v, ok := r.args[k]
	if !ok {
		r.fail("missing arg %q", k)
		return 0
	}
	n, ok := v.(int)
	if !ok {
		r.fail("arg %q: want int, got %T", k, v)
	}
	return n
}

func (r *argReader) optInteger(k string, def int) int {
	if _, ok := r.args[k]; !ok {
		return def
	}
	return r.integer(k)
}

func (r *argReader) optBool(k string, def bool) bool {
	v, ok := r.args[k]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		r.fail("arg %q: want bool, got %T", k, v)
	}
	return b
}

func (r *argReader) key(k string) stats.Key {
	name := r.str(k)
	if r.err != nil {
		return 0
	}
	key, err := stats.ParseKey(name)
	if err != nil {
		r.fail("arg %q: %w", k, err)
	}
	return key
}

// keys accepts a single stat name or a list of them.
func (r *argReader) keys(k string) []stats.Key {
	v, ok := r.args[k]
	if !ok {
		r.fail("missing arg %q", k)
		return nil
	}
	var names []string
	switch v := v.(type) {
	case string:
		names = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				r.fail("arg %q: want stat names, got %T", k, item)
				return nil
			}
			names = append(names, s)
		}
	default:
		r.fail("arg %q: want stat name or list, got %T", k, v)
		return nil
	}
	keys, err := stats.ParseKeys(names)
	if err != nil {
		r.fail("arg %q: %w", k, err)
	}
	return keys
}

// side defaults to Us.
func (r *argReader) side(k string) stats.Side {
	name := r.optStr(k)
	if name == "" || r.err != nil {
		return stats.Us
	}
	side, err := stats.ParseSide(name)
	if err != nil {
		r.fail("arg %q: %w", k, err)
	}
	return side
}

// formatArgs renders args as sorted key=value pairs for the trace.
func formatArgs(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, args[k])
	}
	return strings.Join(parts, " ")
}
