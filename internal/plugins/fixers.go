package plugins

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"vtlint/internal/finding"
	"vtlint/internal/patterns"
	"vtlint/internal/plugin"
)

var (
	endPointsTag = patterns.TagPattern(patterns.CommonTagNames, patterns.AnyValue, patterns.Multiline|patterns.DotAll)
	endPoints    = regexp.MustCompile(`\.{2,}$`)
)

// DoubleEndPoints flags description tags ending in "..", and trims them to a
// single point in fix mode.
type DoubleEndPoints struct{ base }

func (p DoubleEndPoints) NewCheck(ctx *plugin.FileContext) plugin.Check {
	return &doubleEndPointsCheck{ctx: ctx}
}

type doubleEndPointsCheck struct {
	ctx *plugin.FileContext
}

type endPointsHit struct {
	tag        string
	value      string
	start, end int // value bounds in the content
}

func endPointsHits(content string) []endPointsHit {
	re := endPointsTag
	name := re.SubexpIndex("name")
	value := re.SubexpIndex("value")
	var hits []endPointsHit
	for _, loc := range re.FindAllStringSubmatchIndex(content, -1) {
		v := content[loc[2*value]:loc[2*value+1]]
		if !endPoints.MatchString(v) {
			continue
		}
		hits = append(hits, endPointsHit{
			tag:   content[loc[2*name]:loc[2*name+1]],
			value: v,
			start: loc[2*value],
			end:   loc[2*value+1],
		})
	}
	return hits
}

func trimEndPoints(content string, hits []endPointsHit) string {
	var sb strings.Builder
	prev := 0
	for _, h := range hits {
		sb.WriteString(content[prev:h.start])
		sb.WriteString(endPoints.ReplaceAllString(h.value, "."))
		prev = h.end
	}
	sb.WriteString(content[prev:])
	return sb.String()
}

func (c *doubleEndPointsCheck) Run() []finding.Finding {
	var out []finding.Finding
	for _, h := range endPointsHits(c.ctx.Content) {
		out = append(out, finding.NewError(fmt.Sprintf(
			"The script tag '%s' is ending with two or more points: '%s'.", h.tag, h.value)))
	}
	return out
}

func (c *doubleEndPointsCheck) Fix() ([]finding.Finding, error) {
	var hits []endPointsHit
	written, err := c.ctx.Rewrite(func(current string) string {
		hits = endPointsHits(current)
		return trimEndPoints(current, hits)
	})
	if err != nil || !written {
		return nil, err
	}
	out := make([]finding.Finding, 0, len(hits))
	for _, h := range hits {
		out = append(out, finding.NewFix(fmt.Sprintf(
			"Replaced the trailing points of script tag '%s' with a single point.", h.tag)))
	}
	return out, nil
}

// Newlines requires LF line endings and converts CR/CRLF in fix mode.
type Newlines struct{ base }

func (p Newlines) NewCheck(ctx *plugin.FileContext) plugin.Check {
	return &newlinesCheck{ctx: ctx}
}

type newlinesCheck struct {
	ctx *plugin.FileContext
}

func (c *newlinesCheck) Run() []finding.Finding {
	if !strings.Contains(c.ctx.Content, "\r") {
		return nil
	}
	return []finding.Finding{finding.NewError("The VT is using CR or CRLF line endings, only LF is allowed.")}
}

func (c *newlinesCheck) Fix() ([]finding.Finding, error) {
	written, err := c.ctx.Rewrite(func(current string) string {
		fixed := strings.ReplaceAll(current, "\r\n", "\n")
		return strings.ReplaceAll(fixed, "\r", "\n")
	})
	if err != nil || !written {
		return nil, err
	}
	return []finding.Finding{finding.NewFix("Replaced CR/CRLF line endings with LF.")}, nil
}

const (
	// ModificationDateLayout renders "2021-03-24 10:08:26 +0000 (Wed, 24 Mar 2021)".
	ModificationDateLayout = "2006-01-02 15:04:05 -0700 (Mon, 02 Jan 2006)"
	// VersionLayout renders "2021-03-24T10:08:26+0000".
	VersionLayout = "2006-01-02T15:04:05-0700"
)

var (
	lastModificationTag = regexp.MustCompile(`script_tag\(name:"last_modification", value:"(.*)"\);`)
	versionCall         = regexp.MustCompile(`script_version\("([^"]*)"\);`)
)

// UpdateModificationDate stamps last_modification and script_version with
// the current UTC time.
type UpdateModificationDate struct {
	base
	// Now defaults to time.Now.
	Now func() time.Time
}

func (p UpdateModificationDate) NewCheck(ctx *plugin.FileContext) plugin.Check {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return &updateDateCheck{ctx: ctx, now: now}
}

type updateDateCheck struct {
	ctx *plugin.FileContext
	now func() time.Time
}

func (c *updateDateCheck) Run() []finding.Finding {
	if isInclude(c.ctx.File) {
		return nil
	}
	if !lastModificationTag.MatchString(c.ctx.Content) {
		return []finding.Finding{finding.NewError("File is not containing a modification day script tag.")}
	}
	return nil
}

func (c *updateDateCheck) Fix() ([]finding.Finding, error) {
	if isInclude(c.ctx.File) {
		return nil, nil
	}
	now := c.now().UTC()
	stamp := now.Format(ModificationDateLayout)
	var old string
	written, err := c.ctx.Rewrite(func(current string) string {
		m := lastModificationTag.FindStringSubmatch(current)
		if m == nil {
			return current
		}
		old = m[1]
		content := strings.Replace(current, m[0],
			fmt.Sprintf(`script_tag(name:"last_modification", value:"%s");`, stamp), 1)
		return versionCall.ReplaceAllLiteralString(content,
			fmt.Sprintf(`script_version("%s");`, now.Format(VersionLayout)))
	})
	if err != nil || !written {
		return nil, err
	}
	return []finding.Finding{finding.NewFix(fmt.Sprintf(
		"Successfully replaced modification date %s with %s", old, stamp))}, nil
}
