package commands

import "log"

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	}
	return "unknown"
}

// Reporter shows text to the user. Implementations must not block the
// caller on delivery.
type Reporter interface {
	Report(sev Severity, text string)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(sev Severity, text string)

func (f ReporterFunc) Report(sev Severity, text string) { f(sev, text) }

// LogReporter writes reports to the standard logger. It is used when no
// client is attached.
type LogReporter struct{}

func (LogReporter) Report(sev Severity, text string) {
	log.Printf("[%s] %s", sev, text)
}
