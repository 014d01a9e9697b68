package logger

type Level int8

const (
	Disabled   Level = -1   // Disabled turns logging off.
	DebugLevel Level = iota // DebugLevel is used for request and state transition details.
	InfoLevel               // InfoLevel is used for lifecycle messages.
	WarnLevel               // WarnLevel is used for recoverable problems such as stale responses.
	ErrorLevel              // ErrorLevel is used for failed submissions and rendering problems.
)

// ParseLevel maps a level name onto a Level, defaulting to InfoLevel
func ParseLevel(name string) Level {
	switch name {
	case "disabled":
		return Disabled
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

type Logger interface {
	// Returns a logger decorated with the given context.
	WithField(key string, value any) Logger  // WithField returns a logger with the given key-value pair.
	WithFields(fields map[string]any) Logger // WithFields returns a logger with the given fields.
	WithError(err error) Logger              // WithError returns a logger with the given error.

	Debug(args ...any) // Debug logs the message with the debug level.
	Info(args ...any)  // Info logs the message with the info level.
	Warn(args ...any)  // Warn logs the message with the warning level.
	Error(args ...any) // Error logs the message with the error level.

	Debugf(format string, args ...any) // Debugf formats and logs the message with the debug level.
	Infof(format string, args ...any)  // Infof formats and logs the message with the info level.
	Warnf(format string, args ...any)  // Warnf formats and logs the message with the warning level.
	Errorf(format string, args ...any) // Errorf formats and logs the message with the error level.

	SetLevel(level Level) // SetLevel sets the logging level for the logger.
	GetLevel() Level      // GetLevel returns the logging level for the logger.
}
