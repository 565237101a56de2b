// Package patterns holds the compiled regular expressions used to find
// script metadata declarations. The table is built lazily on first use and
// then shared read-only by every goroutine of the process.
package patterns

import (
	"regexp"
	"sync"
	"sync/atomic"
)

var scriptTagValues = map[ScriptTag]string{
	TagDeprecated:       `TRUE`,
	TagCVSSBaseVector:   `AV:[LAN]/AC:[HML]/Au:[NSM]/C:[NPC]/I:[NPC]/A:[NPC]`,
	TagCVSSBase:         `(10\.0|[0-9]\.[0-9])`,
	TagCreationDate:     DateValue,
	TagLastModification: DateValue,
}

// Cache is the compiled pattern table. The zero value is not usable; call
// NewCache. All accessors are safe for concurrent use.
type Cache struct {
	once     sync.Once
	compiled atomic.Bool

	tags     [scriptTagCount]*regexp.Regexp
	specials [specialTagCount]*regexp.Regexp
	common   *regexp.Regexp
}

// NewCache returns an empty cache. Nothing is compiled until first access.
func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) init() {
	c.once.Do(func() {
		for t := ScriptTag(0); t < scriptTagCount; t++ {
			value, ok := scriptTagValues[t]
			var flags Flags
			if !ok {
				value = AnyValue
				flags = Multiline | DotAll
			}
			c.tags[t] = TagPattern(t.String(), value, flags)
		}

		for t := SpecialTag(0); t < specialTagCount; t++ {
			switch t {
			case SpecialXref:
				c.specials[t] = XrefPattern("URL", AnyValue, 0)
			case SpecialOID:
				c.specials[t] = SpecialPattern(t.String(), `\s*["'](?P<oid>([0-9.]+))["']\s*`, 0)
			case SpecialVersion:
				c.specials[t] = SpecialPattern(t.String(), `[0-9\-\:\+T]{24}`, 0)
			default:
				c.specials[t] = SpecialPattern(t.String(), AnyValue, Multiline)
			}
		}

		c.common = TagPattern(CommonTagNames, AnyValue, Multiline)
		c.compiled.Store(true)
	})
}

// Tag returns the pattern for a script_tag declaration, nil for values
// outside the enumeration.
func (c *Cache) Tag(t ScriptTag) *regexp.Regexp {
	if t >= scriptTagCount {
		return nil
	}
	c.init()
	return c.tags[t]
}

// Special returns the pattern for a call-style declaration, nil for values
// outside the enumeration.
func (c *Cache) Special(t SpecialTag) *regexp.Regexp {
	if t >= specialTagCount {
		return nil
	}
	c.init()
	return c.specials[t]
}

// Common matches any of the free-text description tags.
func (c *Cache) Common() *regexp.Regexp {
	c.init()
	return c.common
}

// Tags returns the whole script_tag table keyed by tag.
func (c *Cache) Tags() map[ScriptTag]*regexp.Regexp {
	c.init()
	out := make(map[ScriptTag]*regexp.Regexp, scriptTagCount)
	for t, re := range c.tags {
		out[ScriptTag(t)] = re
	}
	return out
}

// Specials returns the whole special tag table keyed by tag.
func (c *Cache) Specials() map[SpecialTag]*regexp.Regexp {
	c.init()
	out := make(map[SpecialTag]*regexp.Regexp, specialTagCount)
	for t, re := range c.specials {
		out[SpecialTag(t)] = re
	}
	return out
}

// Compiled reports whether the table has been built. It does not trigger
// compilation.
func (c *Cache) Compiled() bool {
	return c.compiled.Load()
}
