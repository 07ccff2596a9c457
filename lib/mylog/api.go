package mylog

import "context"

type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// New creates a logger for the named component. The implementation is chosen at startup:
// structured json on Google Cloud, plain text elsewhere.
var New func(componentName string) Logger

type Logger interface {
	Log(c context.Context, traceLabel string, severity Severity, format string, a ...any)
}
