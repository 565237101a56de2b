package plugins

import (
	"fmt"

	"vtlint/internal/patterns"
)

// Category is the execution phase a script declares with script_category().
// Scripts run in ascending order.
type Category int

const (
	ActInit Category = iota
	ActScanner
	ActSettings
	ActGatherInfo
	ActAttack
	ActMixedAttack
	ActDestructiveAttack
	ActDenial
	ActKillHost
	ActFlood
	ActEnd
)

var categoryNames = map[string]Category{
	"ACT_INIT":               ActInit,
	"ACT_SCANNER":            ActScanner,
	"ACT_SETTINGS":           ActSettings,
	"ACT_GATHER_INFO":        ActGatherInfo,
	"ACT_ATTACK":             ActAttack,
	"ACT_MIXED_ATTACK":       ActMixedAttack,
	"ACT_DESTRUCTIVE_ATTACK": ActDestructiveAttack,
	"ACT_DENIAL":             ActDenial,
	"ACT_KILL_HOST":          ActKillHost,
	"ACT_FLOOD":              ActFlood,
	"ACT_END":                ActEnd,
}

func (c Category) String() string {
	for name, v := range categoryNames {
		if v == c {
			return name
		}
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory maps "ACT_GATHER_INFO" and friends to a Category.
func ParseCategory(name string) (Category, bool) {
	c, ok := categoryNames[name]
	return c, ok
}

type categoryStatus uint8

const (
	categoryOK categoryStatus = iota
	categoryMissing
	categoryUnsupported
)

// scriptCategory extracts the declared category from content.
func scriptCategory(cache *patterns.Cache, content string) (Category, string, categoryStatus) {
	re := cache.Special(patterns.SpecialCategory)
	m := re.FindStringSubmatch(content)
	if m == nil {
		return 0, "", categoryMissing
	}
	raw := patterns.Group(re, m, "value")
	c, ok := ParseCategory(raw)
	if !ok {
		return 0, raw, categoryUnsupported
	}
	return c, raw, categoryOK
}
