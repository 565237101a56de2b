package plugins

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"vtlint/internal/finding"
	"vtlint/internal/plugin"
)

// hexstr("OpenVAS") and hexstr("openvas") are listed too.
var badwords = []string{
	"cracker",
	"openvas",
	"OpenVAS",
	"4f70656e564153",
	"6f70656e766173",
}

var badwordsIgnore = []string{
	"gb_openvas",
	"gb_gsa_",
	"http_func.inc",
	"misc_func.inc",
	"OpenVAS_detect.nasl",
}

var badwordExceptions = []string{
	"openvas-nasl",
	"openvas-smb",
	"openvas-scanner",
	"openvas-libraries",
	"openvas-gsa",
	"openvas-cli",
	"openvas-manager",
	"openvassd",
	"lists.wald.intevation.org",
	"lib64openvas-devel",
	"lib64openvas6",
	"libopenvas-devel",
	"libopenvas6",
	"cpe:/a:openvas",
	"OPENVAS_VERSION",
	"openvas.org",
	"get_preference",
	"OPENVAS_USE_LIBSSH",
	"github.com/greenbone",
	"Cookie: mstshash=openvas",
	"smb_nt.inc",
	"lanman",
	"OpenVAS_detect.nasl",
	"OpenVAS TCP Scanner",
	"openvas_tcp_scanner",
	"gb_openvas_",
	"OpenVAS Manager",
	"OpenVAS Administrator",
	"OpenVAS / Greenbone Vulnerability Manager",
}

var badwordPrefixExceptions = []string{
	"# OpenVAS Vulnerability Test",
	"# OpenVAS Include File",
	"  script_",
	"# $Id: ",
}

// file name and fragment allowed only together
var badwordCombined = [][2]string{{"find_service3.nasl", "OpenVAS-"}}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Badwords flags lines using words that must not appear in the feed.
type Badwords struct{ base }

func (p Badwords) CheckLines(ctx *plugin.FileContext) []finding.Finding {
	if ignored(ctx.File, badwordsIgnore) {
		return nil
	}
	name := filepath.Base(ctx.File)
	var out []finding.Finding
	for i, line := range ctx.Lines() {
		if !containsAny(line, badwords) {
			continue
		}
		if containsAny(line, badwordExceptions) || hasAnyPrefix(line, badwordPrefixExceptions) {
			continue
		}
		allowed := false
		for _, c := range badwordCombined {
			if name == c[0] && strings.Contains(line, c[1]) {
				allowed = true
				break
			}
		}
		if allowed {
			continue
		}
		out = append(out, finding.NewError(fmt.Sprintf("Badword in line %5d: %s", i+1, line)))
	}
	return out
}

var todoPattern = regexp.MustCompile(`##? *(TODO|TBD|@todo):?`)

var todoIgnore = []string{
	"gb_openvas",
	"gb_gsa_",
	"http_func.inc",
	"misc_func.inc",
}

// TodoTbd flags TODO/TBD/@todo markers left in comments.
type TodoTbd struct{ base }

func (p TodoTbd) CheckLines(ctx *plugin.FileContext) []finding.Finding {
	if ignored(ctx.File, todoIgnore) {
		return nil
	}
	var out []finding.Finding
	for i, line := range ctx.Lines() {
		if todoPattern.MatchString(line) {
			out = append(out, finding.NewError(fmt.Sprintf(
				"VT %s contains #TODO/TBD/@todo keywords at line %d", ctx.File, i+1)))
		}
	}
	return out
}

// Tabs warns about tab characters; the feed is indented with spaces.
type Tabs struct{ base }

func (p Tabs) CheckLines(ctx *plugin.FileContext) []finding.Finding {
	var out []finding.Finding
	for i, line := range ctx.Lines() {
		if strings.Contains(line, "\t") {
			out = append(out, finding.NewWarning(fmt.Sprintf("Tab character found in line %5d: %s", i+1, line)))
		}
	}
	return out
}
