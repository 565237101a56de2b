package plugins

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"vtlint/internal/finding"
	"vtlint/internal/patterns"
	"vtlint/internal/plugin"
)

// VersionAndLastModification requires both script_version() and the
// last_modification tag in their canonical form.
type VersionAndLastModification struct{ base }

func (p VersionAndLastModification) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	if isInclude(ctx.File) {
		return nil
	}
	c := cache(ctx)
	var out []finding.Finding
	if !c.Special(patterns.SpecialVersion).MatchString(ctx.Content) {
		out = append(out, finding.NewError(fmt.Sprintf(
			"VT '%s' is missing script_version(); or is using a wrong syntax.", ctx.File)))
	}
	if !c.Tag(patterns.TagLastModification).MatchString(ctx.Content) {
		out = append(out, finding.NewError(fmt.Sprintf(
			"VT '%s' is missing script_tag(name:\"last_modification\" or is using a wrong syntax.", ctx.File)))
	}
	return out
}

// DuplicatedScriptTags reports tags that must appear at most once.
type DuplicatedScriptTags struct{ base }

func (p DuplicatedScriptTags) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	c := cache(ctx)
	var out []finding.Finding
	for _, tag := range patterns.SpecialTags() {
		switch tag {
		case patterns.SpecialXref, patterns.SpecialAddPreference:
			continue
		case patterns.SpecialDependencies:
			// feed specific dependencies are declared in a second call
			if strings.Contains(ctx.Content, "FEED_NAME") {
				continue
			}
		}
		if len(c.Special(tag).FindAllStringIndex(ctx.Content, 2)) > 1 {
			out = append(out, finding.NewError(fmt.Sprintf(
				"The VT is using the script tag 'script_%s' multiple number of times.", tag)))
		}
	}
	for _, tag := range patterns.ScriptTags() {
		if len(c.Tag(tag).FindAllStringIndex(ctx.Content, 2)) > 1 {
			out = append(out, finding.NewError(fmt.Sprintf(
				"The VT is using the script tag '%s' multiple number of times.", tag)))
		}
	}
	return out
}

// MissingTagSolution requires a solution tag whenever solution_type is set.
type MissingTagSolution struct{ base }

var missingSolutionIgnore = []string{"nmap_nse/"}

func (p MissingTagSolution) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	if ignored(ctx.File, missingSolutionIgnore) {
		return nil
	}
	if !strings.Contains(ctx.Content, "solution_type") || deprecated(ctx.Content) {
		return nil
	}
	c := cache(ctx)
	if !c.Tag(patterns.TagSolutionType).MatchString(ctx.Content) {
		return nil
	}
	if c.Tag(patterns.TagSolution).MatchString(ctx.Content) {
		return nil
	}
	return []finding.Finding{finding.NewError(
		"'solution_type' script_tag but no 'solution' script_tag found in the description block.")}
}

// ValidFamilies lists the families accepted by check_script_family.
var ValidFamilies = []string{
	"AIX Local Security Checks",
	"Amazon Linux Local Security Checks",
	"Brute force attacks",
	"Buffer overflow",
	"CISCO",
	"CentOS Local Security Checks",
	"Citrix Xenserver Local Security Checks",
	"Compliance",
	"Credentials",
	"Databases",
	"Debian Local Security Checks",
	"Default Accounts",
	"Denial of Service",
	"F5 Local Security Checks",
	"FTP",
	"Fedora Local Security Checks",
	"FortiOS Local Security Checks",
	"FreeBSD Local Security Checks",
	"Gain a shell remotely",
	"General",
	"Gentoo Local Security Checks",
	"Huawei",
	"Huawei EulerOS Local Security Checks",
	"HP-UX Local Security Checks",
	"IT-Grundschutz",
	"IT-Grundschutz-deprecated",
	"IT-Grundschutz-15",
	"JunOS Local Security Checks",
	"Mac OS X Local Security Checks",
	"Mageia Linux Local Security Checks",
	"Malware",
	"Mandrake Local Security Checks",
	"Nmap NSE",
	"Nmap NSE net",
	"Oracle Linux Local Security Checks",
	"PCI-DSS",
	"PCI-DSS 2.0",
	"Palo Alto PAN-OS Local Security Checks",
	"Peer-To-Peer File Sharing",
	"Policy",
	"Port scanners",
	"Privilege escalation",
	"Product detection",
	"RPC",
	"Red Hat Local Security Checks",
	"Remote file access",
	"SMTP problems",
	"SNMP",
	"SSL and TLS",
	"Service detection",
	"Settings",
	"Slackware Local Security Checks",
	"Solaris Local Security Checks",
	"SuSE Local Security Checks",
	"Ubuntu Local Security Checks",
	"Useless services",
	"VMware Local Security Checks",
	"Web Servers",
	"Web application abuses",
	"Windows",
	"Windows : Microsoft Bulletins",
}

var familyPattern = regexp.MustCompile(`script_family\s*\(["']?(?P<family>.+?)["']?\s*\)\s*;`)

// ScriptFamily requires exactly one script_family() with a known value.
type ScriptFamily struct{ base }

func (p ScriptFamily) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	if isInclude(ctx.File) {
		return nil
	}
	matches := familyPattern.FindAllStringSubmatch(ctx.Content, -1)
	switch {
	case len(matches) == 0:
		return []finding.Finding{finding.NewError("No script family exist")}
	case len(matches) > 1:
		return []finding.Finding{finding.NewError("More then one script family exist")}
	}
	family := matches[0][1]
	if !slices.Contains(ValidFamilies, family) {
		return []finding.Finding{finding.NewError(fmt.Sprintf("Invalid or misspelled script family \"%s\"", family))}
	}
	return nil
}

// ScriptCategory requires a known script_category().
type ScriptCategory struct{ base }

func (p ScriptCategory) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	if isInclude(ctx.File) {
		return nil
	}
	_, raw, status := scriptCategory(cache(ctx), ctx.Content)
	switch status {
	case categoryMissing:
		return []finding.Finding{finding.NewError("VT is missing a script_category.")}
	case categoryUnsupported:
		return []finding.Finding{finding.NewError(fmt.Sprintf("VT is using an unsupported category '%s'.", raw))}
	}
	return nil
}

const (
	oidRoot   = "1.3.6.1.4.1.25623.1."
	oidVendor = oidRoot + "1."
)

var genericOID = regexp.MustCompile(`^1\.3\.6\.1\.4\.1\.25623\.1\.0\.[0-9]+$`)

type vendorOID struct {
	family string
	owner  string
	// optional stricter layout and its description
	layout *regexp.Regexp
	hint   string
}

var vendorOIDs = map[string]vendorOID{
	"1": {family: "Debian Local Security Checks", owner: "Debian VTs"},
	"2": {
		family: "Huawei EulerOS Local Security Checks",
		owner:  "Huawei EulerOS",
		layout: regexp.MustCompile(`^1\.3\.6\.1\.4\.1\.25623\.1\.1\.2\.20[0-4][0-9]\.[0-9]{4}$`),
		hint:   "EulerOS pattern: 1.3.6.1.4.1.25623.1.1.2.[ADVISORY_YEAR].[ADVISORY_ID]",
	},
	"4": {
		family: "SuSE Local Security Checks",
		owner:  "SUSE SLES",
		layout: regexp.MustCompile(`^1\.3\.6\.1\.4\.1\.25623\.1\.1\.4\.20[0-4][0-9]\.[0-9]{4,5}\.[0-9]+$`),
		hint:   "SLES pattern: 1.3.6.1.4.1.25623.1.1.4.[ADVISORY_YEAR].[ADVISORY_ID].[ADVISORY_REVISION]",
	},
	"5":  {family: "Amazon Linux Local Security Checks", owner: "Amazon Linux"},
	"6":  {family: "Gentoo Local Security Checks", owner: "Gentoo VTs"},
	"7":  {family: "FreeBSD Local Security Checks", owner: "FreeBSD VTs"},
	"8":  {family: "Oracle Linux Local Security Checks", owner: "Oracle Linux VTs"},
	"9":  {family: "Fedora Local Security Checks", owner: "Fedora VTs"},
	"10": {family: "Mageia Linux Local Security Checks", owner: "Mageia Linux"},
	"11": {family: "RedHat Local Security Checks", owner: "RedHat VTs"},
	"12": {family: "Ubuntu Local Security Checks", owner: "Ubuntu VTs"},
}

// ValidOID checks the OID namespace and the vendor ranges reserved for
// local security check families.
type ValidOID struct{ base }

func (p ValidOID) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	if isInclude(ctx.File) {
		return nil
	}
	c := cache(ctx)
	re := c.Special(patterns.SpecialOID)
	m := re.FindStringSubmatch(ctx.Content)
	if m == nil {
		return []finding.Finding{finding.NewError("No valid script_oid() call found")}
	}
	oid := patterns.Group(re, m, "oid")
	invalid := func(hint string) []finding.Finding {
		msg := fmt.Sprintf("script_oid() is using an invalid OID '%s'", oid)
		if hint != "" {
			msg += " (" + hint + ")"
		}
		return []finding.Finding{finding.NewError(msg)}
	}

	if !strings.HasPrefix(oid, oidVendor) {
		if genericOID.MatchString(oid) {
			return nil
		}
		return invalid("")
	}

	fre := c.Special(patterns.SpecialFamily)
	fm := fre.FindStringSubmatch(ctx.Content)
	if fm == nil {
		return []finding.Finding{finding.NewError("VT is missing a script family!")}
	}
	family := patterns.Group(fre, fm, "value")

	prefix, _, _ := strings.Cut(strings.TrimPrefix(oid, oidVendor), ".")
	vendor, ok := vendorOIDs[prefix]
	if !ok {
		return invalid("Vendor OID with unknown Vendor-Prefix")
	}
	if family != vendor.family {
		return []finding.Finding{finding.NewError(fmt.Sprintf(
			"script_oid() is using an OID that is reserved for %s '%s'", vendor.owner, oid))}
	}
	if vendor.layout != nil && !vendor.layout.MatchString(oid) {
		return invalid(vendor.hint)
	}
	return nil
}

var preferenceTypePattern = patterns.SpecialPattern(
	"add_preference", `[^)]*?type\s*:\s*['"](?P<type>[^'"]+)['"]\s*[^)]*`, 0)

var validPreferenceTypes = []string{"checkbox", "password", "file", "radio", "entry"}

// AddPreferenceType validates the type argument of script_add_preference().
type AddPreferenceType struct{ base }

func (p AddPreferenceType) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	if !strings.Contains(ctx.Content, "script_add_preference") {
		return nil
	}
	var out []finding.Finding
	for _, m := range preferenceTypePattern.FindAllStringSubmatch(ctx.Content, -1) {
		typ := patterns.Group(preferenceTypePattern, m, "type")
		if slices.Contains(validPreferenceTypes, typ) {
			continue
		}
		if strings.Contains(ctx.File, "ssh_authorization_init.nasl") && typ == "sshlogin" {
			continue
		}
		out = append(out, finding.NewError(fmt.Sprintf(
			"VT is using an invalid or misspelled string (%s) passed to the type parameter of script_add_preference in '%s'",
			typ, m[0])))
	}
	return out
}

var (
	recommendedSkipCategory = patterns.SpecialPattern("category", `ACT_(SETTINGS|SCANNER|INIT)`, 0)
	recommendedMany         = []string{"require_ports", "require_udp_ports", "require_keys", "mandatory_keys"}
	recommendedManyPattern  = patterns.SpecialPattern("("+strings.Join(recommendedMany, "|")+")", `.*`, 0)
	recommendedDepsPattern  = patterns.SpecialPattern("dependencies", `.*`, 0)
)

// CallsRecommended warns about scripts without dependency or requirement
// declarations.
type CallsRecommended struct{ base }

func (p CallsRecommended) CheckContent(ctx *plugin.FileContext) []finding.Finding {
	if isInclude(ctx.File) {
		return nil
	}
	if recommendedSkipCategory.MatchString(ctx.Content) || deprecated(ctx.Content) {
		return nil
	}
	var out []finding.Finding
	if !recommendedManyPattern.MatchString(ctx.Content) {
		out = append(out, finding.NewWarning(
			"VT contains none of the following recommended calls: "+strings.Join(recommendedMany, ", ")))
	}
	if !recommendedDepsPattern.MatchString(ctx.Content) {
		out = append(out, finding.NewWarning(
			"VT does not contain the following recommended call: 'script_dependencies'"))
	}
	return out
}
