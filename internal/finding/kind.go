package finding

import "fmt"

// Kind classifies a finding.
type Kind uint8

const (
	// Info is an ok/no-op message; never counted.
	Info Kind = iota
	// Warning never fails a run.
	Warning
	// Error fails the run.
	Error
	// Fix accompanies a file mutation performed by a fixer.
	Fix
)

func (k Kind) String() string {
	switch k {
	case Info:
		return "ok"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fix:
		return "fix"
	}
	return "unknown"
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "ok":
		return Info, nil
	case "warning":
		return Warning, nil
	case "error":
		return Error, nil
	case "fix":
		return Fix, nil
	}
	return Info, fmt.Errorf("unknown finding kind %q", s)
}

// MarshalText makes dumps carry "error" rather than 2.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
