package config

import (
	"log/slog"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/normalization"
	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/retry"
)

// StoreDriver selects the branding store implementation.
type StoreDriver string

const (
	// StoreDriverSignaturit persists through the relay to the provider API.
	StoreDriverSignaturit StoreDriver = "signaturit"
	// StoreDriverSQLite persists to a local database for offline editing.
	StoreDriverSQLite StoreDriver = "sqlite"
)

var storeDriverNormalizer = normalization.NewEnumNormalizer("store driver", map[string]StoreDriver{
	"signaturit": StoreDriverSignaturit,
	"api":        StoreDriverSignaturit,
	"sqlite":     StoreDriverSQLite,
}, StoreDriverSignaturit)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewEnumNormalizer("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// SlogLevel maps l to a slog level.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewEnumNormalizer("log format", map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

var backoffNormalizer = normalization.NewEnumNormalizer("retry backoff", map[string]retry.BackoffMode{
	"fixed":       retry.BackoffFixed,
	"linear":      retry.BackoffLinear,
	"exponential": retry.BackoffExponential,
}, retry.BackoffLinear)
