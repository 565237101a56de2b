package finding

import "sort"

// GenericBucket is the statistics key for findings that no plugin produced
// (unreadable files, wrong extensions).
const GenericBucket = "generic"

// PluginCounts holds per-plugin counters.
type PluginCounts struct {
	Errors   int `json:"errors" msgpack:"errors"`
	Warnings int `json:"warnings" msgpack:"warnings"`
	Fixes    int `json:"fixes" msgpack:"fixes"`
}

// Counts aggregates findings per plugin for one run.
// Not safe for concurrent use: exactly one goroutine owns it.
type Counts struct {
	byPlugin map[string]*PluginCounts
	Errors   int
	Warnings int
	Fixes    int
}

func NewCounts() *Counts {
	return &Counts{byPlugin: make(map[string]*PluginCounts)}
}

// Add classifies f and bumps the bucket for plugin. Info findings are ignored.
func (c *Counts) Add(plugin string, f Finding) {
	if plugin == "" {
		plugin = GenericBucket
	}
	var bucket *PluginCounts
	switch f.Kind {
	case Error, Warning, Fix:
		bucket = c.bucket(plugin)
	default:
		return
	}
	switch f.Kind {
	case Error:
		bucket.Errors++
		c.Errors++
	case Warning:
		bucket.Warnings++
		c.Warnings++
	case Fix:
		bucket.Fixes++
		c.Fixes++
	}
}

// AddAll adds every finding in list under plugin.
func (c *Counts) AddAll(plugin string, list []Finding) {
	for _, f := range list {
		c.Add(plugin, f)
	}
}

func (c *Counts) bucket(plugin string) *PluginCounts {
	b, ok := c.byPlugin[plugin]
	if !ok {
		b = &PluginCounts{}
		c.byPlugin[plugin] = b
	}
	return b
}

// Plugin returns the counters for plugin (zero value if it never reported).
func (c *Counts) Plugin(name string) PluginCounts {
	if b, ok := c.byPlugin[name]; ok {
		return *b
	}
	return PluginCounts{}
}

// Plugins returns the names of plugins with at least one counted finding, sorted.
func (c *Counts) Plugins() []string {
	names := make([]string, 0, len(c.byPlugin))
	for name := range c.byPlugin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies the per-plugin table.
func (c *Counts) Snapshot() map[string]PluginCounts {
	out := make(map[string]PluginCounts, len(c.byPlugin))
	for name, b := range c.byPlugin {
		out[name] = *b
	}
	return out
}

// Success is true iff no error was counted.
func (c *Counts) Success() bool {
	return c.Errors == 0
}
