package report

import "sync"

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during compilation.  The reporter respects the set log
// level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchronize different report method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of compile errors recorded so far.
	errorCount int

	// The number of compile warnings recorded so far.
	warningCount int
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// rep is the global reporter instance.
var rep *Reporter

// InitReporter initializes the global error reporter to the given log level.
// If the reporter has already been initialized, this function does nothing.
func InitReporter(logLevel int) {
	if rep == nil {
		rep = &Reporter{
			m:        &sync.Mutex{},
			logLevel: logLevel,
		}
	}
}

// AnyErrors returns whether or not any compile errors were recorded.
func AnyErrors() bool {
	return rep.errorCount > 0
}

// ErrorCount returns the number of compile errors recorded.
func ErrorCount() int {
	return rep.errorCount
}

// WarningCount returns the number of compile warnings recorded.
func WarningCount() int {
	return rep.warningCount
}

// ResetErrors clears the recorded error and warning counts so that a new,
// independent compilation can run in the same process.
func ResetErrors() {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount = 0
	rep.warningCount = 0
}
