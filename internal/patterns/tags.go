package patterns

// ScriptTag names a script_tag(name:"...", value:...) declaration.
type ScriptTag uint8

const (
	TagAffected ScriptTag = iota
	TagCreationDate
	TagCVSSBase
	TagCVSSBaseVector
	TagDeprecated
	TagImpact
	TagInsight
	TagLastModification
	TagQoD
	TagQoDType
	TagSeverityVector
	TagSeverityOrigin
	TagSeverityDate
	TagSolution
	TagSolutionType
	TagSummary
	TagVuldetect

	scriptTagCount
)

var scriptTagNames = [...]string{
	TagAffected:         "affected",
	TagCreationDate:     "creation_date",
	TagCVSSBase:         "cvss_base",
	TagCVSSBaseVector:   "cvss_base_vector",
	TagDeprecated:       "deprecated",
	TagImpact:           "impact",
	TagInsight:          "insight",
	TagLastModification: "last_modification",
	TagQoD:              "qod",
	TagQoDType:          "qod_type",
	TagSeverityVector:   "severity_vector",
	TagSeverityOrigin:   "severity_origin",
	TagSeverityDate:     "severity_date",
	TagSolution:         "solution",
	TagSolutionType:     "solution_type",
	TagSummary:          "summary",
	TagVuldetect:        "vuldetect",
}

func (t ScriptTag) String() string {
	if t < scriptTagCount {
		return scriptTagNames[t]
	}
	return "unknown"
}

// ScriptTags lists every ScriptTag in declaration order.
func ScriptTags() []ScriptTag {
	out := make([]ScriptTag, 0, scriptTagCount)
	for t := ScriptTag(0); t < scriptTagCount; t++ {
		out = append(out, t)
	}
	return out
}

// SpecialTag names a call-style declaration such as script_oid("...").
type SpecialTag uint8

const (
	SpecialAddPreference SpecialTag = iota
	SpecialBugtraqID
	SpecialCategory
	SpecialCopyright
	SpecialCVEID
	SpecialDependencies
	SpecialExcludeKeys
	SpecialFamily
	SpecialMandatoryKeys
	SpecialName
	SpecialOID
	SpecialRequireKeys
	SpecialRequirePorts
	SpecialRequireUDPPorts
	SpecialVersion
	SpecialXref

	specialTagCount
)

var specialTagNames = [...]string{
	SpecialAddPreference:   "add_preference",
	SpecialBugtraqID:       "bugtraq_id",
	SpecialCategory:        "category",
	SpecialCopyright:       "copyright",
	SpecialCVEID:           "cve_id",
	SpecialDependencies:    "dependencies",
	SpecialExcludeKeys:     "exclude_keys",
	SpecialFamily:          "family",
	SpecialMandatoryKeys:   "mandatory_keys",
	SpecialName:            "name",
	SpecialOID:             "oid",
	SpecialRequireKeys:     "require_keys",
	SpecialRequirePorts:    "require_ports",
	SpecialRequireUDPPorts: "require_udp_ports",
	SpecialVersion:         "version",
	SpecialXref:            "xref",
}

func (t SpecialTag) String() string {
	if t < specialTagCount {
		return specialTagNames[t]
	}
	return "unknown"
}

// SpecialTags lists every SpecialTag in declaration order.
func SpecialTags() []SpecialTag {
	out := make([]SpecialTag, 0, specialTagCount)
	for t := SpecialTag(0); t < specialTagCount; t++ {
		out = append(out, t)
	}
	return out
}
