package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"

	"posts-api/config"
)

// Logger is the minimal logger interface used across the service.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields holds structured log fields.
type Fields map[string]any

const (
	FormatJSON = "json"
	FormatText = "text"

	defaultServiceName = "posts-api"
	timeFormat         = "2006-01-02T15:04:05.000Z07:00"
	textTemplate       = "{{datetime}} [{{level}}] {{message}} {{data}}\n"
)

// Log is the process-wide logger. It writes info-level JSON to stdout until
// Init is called.
var Log Logger = New(os.Stdout, config.LoggingConfig{})

var (
	serviceName atomic.Value
	// fields go to Record.Data for the text template, Record.Fields for JSON
	textOutput atomic.Bool
)

func init() {
	serviceName.Store(defaultServiceName)
}

// Init replaces the global logger according to cfg.
func Init(cfg config.LoggingConfig) {
	Log = New(os.Stdout, cfg)
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = defaultServiceName
	}
	serviceName.Store(name)
	textOutput.Store(strings.EqualFold(cfg.Format, FormatText))
}

// New builds a gookit/slog logger writing to out. An empty or unknown level
// falls back to info, an unknown format to JSON. Only Init switches the
// *WithFields helpers between the two formats.
func New(out io.Writer, cfg config.LoggingConfig) Logger {
	level := strings.ToLower(strings.TrimSpace(cfg.Level))
	if level == "" {
		level = "info"
	}

	h := handler.IOWriterWithMaxLevel(out, slog.LevelByName(level))
	if strings.EqualFold(cfg.Format, FormatText) {
		f := slog.NewTextFormatter(textTemplate)
		f.TimeFormat = timeFormat
		h.SetFormatter(f)
	} else {
		h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
			f.Fields = []string{
				slog.FieldKeyDatetime,
				slog.FieldKeyLevel,
				slog.FieldKeyMessage,
			}
			f.Aliases = slog.StringMap{
				slog.FieldKeyDatetime: "datetime",
				slog.FieldKeyLevel:    "level",
				slog.FieldKeyMessage:  "message",
			}
			f.TimeFormat = timeFormat
		}))
	}

	return slog.NewWithHandlers(h)
}

// withServiceName adds service_name when the caller did not set it.
func withServiceName(fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["service_name"]; !ok {
		fields["service_name"] = serviceName.Load().(string)
	}
	return fields
}

func InfoWithFields(msg string, fields Fields) {
	logWithFields(slog.InfoLevel, msg, fields)
}

func WarnWithFields(msg string, fields Fields) {
	logWithFields(slog.WarnLevel, msg, fields)
}

func ErrorWithFields(msg string, fields Fields) {
	logWithFields(slog.ErrorLevel, msg, fields)
}

func logWithFields(level slog.Level, msg string, fields Fields) {
	fields = withServiceName(fields)
	lg, ok := Log.(*slog.Logger)
	if !ok {
		switch level {
		case slog.ErrorLevel:
			Log.Error(msg)
		case slog.WarnLevel:
			Log.Warn(msg)
		default:
			Log.Info(msg)
		}
		return
	}
	if textOutput.Load() {
		lg.WithData(slog.M(fields)).Log(level, msg)
		return
	}
	lg.WithFields(slog.M(fields)).Log(level, msg)
}
