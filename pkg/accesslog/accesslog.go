// Package accesslog models the record of which document paths were touched
// during an instrumented run, how often, and from which call stacks.
package accesslog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is the log record for a single dot path. Count and Traces are
// supplied independently; neither is derived from the other.
type Entry struct {
	Count  int      `json:"count" yaml:"count"`
	Traces []string `json:"traces,omitempty" yaml:"traces,omitempty"`
}

// Log maps a dot-separated path to its Entry. The root path is "".
type Log map[string]Entry

// Count returns the access count recorded for path, or 0.
func (l Log) Count(path string) int {
	return l[path].Count
}

// Traces returns the stack traces recorded for path. Missing paths yield an
// empty, non-nil list.
func (l Log) Traces(path string) []string {
	traces := l[path].Traces
	if traces == nil {
		return []string{}
	}
	return append([]string(nil), traces...)
}

// AccessedWithin reports whether path itself, or any path below it, was
// accessed more than once.
func (l Log) AccessedWithin(path string) bool {
	prefix := path + "."
	for p, e := range l {
		if (p == path || strings.HasPrefix(p, prefix)) && e.Count > 1 {
			return true
		}
	}
	return false
}

// Paths returns the logged paths in lexical order.
func (l Log) Paths() []string {
	out := make([]string, 0, len(l))
	for p := range l {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Merge returns a new log with the entries of other laid over l.
func (l Log) Merge(other Log) Log {
	out := make(Log, len(l)+len(other))
	for p, e := range l {
		out[p] = e
	}
	for p, e := range other {
		out[p] = e
	}
	return out
}

// UnmarshalYAML accepts a count, a list of traces, or a {count, traces} map.
// Other shapes decode to the zero Entry.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	*e = Entry{}
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil
		}
		e.Count = countFromFloat(f)
	case yaml.SequenceNode:
		traces := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			traces = append(traces, item.Value)
		}
		e.Traces = traces
	case yaml.MappingNode:
		var raw struct {
			Count  yaml.Node `yaml:"count"`
			Traces []string  `yaml:"traces"`
		}
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("decode log entry at line %d: %w", node.Line, err)
		}
		var f float64
		if raw.Count.Kind == yaml.ScalarNode && raw.Count.Decode(&f) == nil {
			e.Count = countFromFloat(f)
		}
		e.Traces = raw.Traces
	}
	return nil
}

// UnmarshalJSON mirrors UnmarshalYAML for callers decoding with encoding/json.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("decode log entry: %w", err)
	}
	if len(node.Content) == 0 {
		*e = Entry{}
		return nil
	}
	return e.UnmarshalYAML(node.Content[0])
}

func countFromFloat(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int(math.Trunc(f))
}
