package finding

// Finding is a classified message produced by a plugin or by the runner
// itself. Values are immutable: the With* helpers return modified copies.
type Finding struct {
	Kind    Kind   `json:"kind" msgpack:"kind"`
	Message string `json:"message" msgpack:"message"`
	File    string `json:"file,omitempty" msgpack:"file,omitempty"`
	Plugin  string `json:"plugin,omitempty" msgpack:"plugin,omitempty"`
}

func New(kind Kind, msg string) Finding {
	return Finding{Kind: kind, Message: msg}
}

// NewInfo is a shortcut for Info findings.
func NewInfo(msg string) Finding { return New(Info, msg) }

// NewWarning is a shortcut for Warning findings.
func NewWarning(msg string) Finding { return New(Warning, msg) }

// NewError is a shortcut for Error findings.
func NewError(msg string) Finding { return New(Error, msg) }

// NewFix is a shortcut for Fix findings.
func NewFix(msg string) Finding { return New(Fix, msg) }

func (f Finding) WithFile(path string) Finding {
	f.File = path
	return f
}

func (f Finding) WithPlugin(name string) Finding {
	f.Plugin = name
	return f
}

// Stamp fills File and Plugin if the producer left them empty.
func (f Finding) Stamp(path, plugin string) Finding {
	if f.File == "" {
		f.File = path
	}
	if f.Plugin == "" {
		f.Plugin = plugin
	}
	return f
}

// HasErrors reports whether any finding in list is an Error.
func HasErrors(list []Finding) bool {
	for i := range list {
		if list[i].Kind == Error {
			return true
		}
	}
	return false
}

// CountKind returns the number of findings of the given kind.
func CountKind(list []Finding, kind Kind) int {
	n := 0
	for i := range list {
		if list[i].Kind == kind {
			n++
		}
	}
	return n
}
