package patterns

import (
	"regexp"
	"strings"
)

// Flags mirror the inline RE2 flags the tag patterns need.
type Flags uint8

const (
	// Multiline makes ^ and $ match at line boundaries.
	Multiline Flags = 1 << iota
	// DotAll lets . match '\n'.
	DotAll
)

func (f Flags) prefix() string {
	var sb strings.Builder
	if f&Multiline != 0 {
		sb.WriteByte('m')
	}
	if f&DotAll != 0 {
		sb.WriteByte('s')
	}
	if sb.Len() == 0 {
		return ""
	}
	return "(?" + sb.String() + ")"
}

// AnyValue is the default lazy value matcher.
const AnyValue = `.+?`

// DateValue matches "2021-01-01 10:00:00 +0100 (Fri, 01 Jan 2021)".
const DateValue = `[A-Za-z0-9\:\-\+\,\s\(\)]{44}`

// CommonTagNames alternates the free-text tags every script should carry.
const CommonTagNames = `(summary|impact|affected|insight|vuldetect|solution)`

const (
	tagTemplate = `script_tag\s*\(\s*name\s*:\s*["'](?P<name>{name})["']\s*,` +
		`\s*value\s*:\s*["']?(?P<value>{value})["']?\s*\)\s*;`
	specialTemplate = `script_(?P<name>{name})\s*\(["']?(?P<value>{value})["']?\s*\)\s*;`
	xrefTemplate    = `script_xref\(\s*name\s*:\s*["'](?P<type>{type})["']\s*,` +
		`\s*value\s*:\s*["']?(?P<value>{value})["']?\s*\)\s*;`
)

// TagPattern builds a script_tag matcher. Matches expose the "name" and
// "value" groups. Malformed name or value expressions panic, like
// regexp.MustCompile: callers pass literals.
func TagPattern(name, value string, flags Flags) *regexp.Regexp {
	if value == "" {
		value = AnyValue
	}
	expr := strings.NewReplacer("{name}", name, "{value}", value).Replace(tagTemplate)
	return regexp.MustCompile(flags.prefix() + expr)
}

// SpecialPattern builds a script_<name>(<value>); matcher.
func SpecialPattern(name, value string, flags Flags) *regexp.Regexp {
	if value == "" {
		value = AnyValue
	}
	expr := strings.NewReplacer("{name}", name, "{value}", value).Replace(specialTemplate)
	return regexp.MustCompile(flags.prefix() + expr)
}

// XrefPattern builds a script_xref(name:"<typ>", value:<value>); matcher.
// Matches expose the "type" and "value" groups.
func XrefPattern(typ, value string, flags Flags) *regexp.Regexp {
	if value == "" {
		value = `.+`
	}
	expr := strings.NewReplacer("{type}", typ, "{value}", value).Replace(xrefTemplate)
	return regexp.MustCompile(flags.prefix() + expr)
}

// Group returns the named submatch of m, or "" if absent.
func Group(re *regexp.Regexp, m []string, name string) string {
	i := re.SubexpIndex(name)
	if i < 0 || i >= len(m) {
		return ""
	}
	return m[i]
}
