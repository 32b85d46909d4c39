package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// アプリ全体で使うロガーの約束
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
	// 属性付きの子ロガーを返す
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger は環境に合わせたslogロガーを作る。
// prodはJSON、それ以外はテキスト。
func NewSlogLogger(level string, jsonOutput bool) Logger {
	return newSlogLogger(os.Stdout, level, jsonOutput)
}

func newSlogLogger(w io.Writer, level string, jsonOutput bool) Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if jsonOutput {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &slogLogger{l: slog.New(h)}
}

// ParseLevel は "debug" / "info" / "warn" / "error" を解釈する。不明ならinfo
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Slog は echo のミドルウェアなどに渡すための素のslog
func Slog(l Logger) *slog.Logger {
	if s, ok := l.(*slogLogger); ok {
		return s.l
	}
	if _, ok := l.(nopLogger); ok {
		return slog.New(slog.DiscardHandler)
	}
	return slog.Default()
}

func (s *slogLogger) Debugf(format string, args ...any) {
	s.l.Debug(fmt.Sprintf(format, args...))
}

func (s *slogLogger) Infof(format string, args ...any) {
	s.l.Info(fmt.Sprintf(format, args...))
}

func (s *slogLogger) Warnf(format string, args ...any) {
	s.l.Warn(fmt.Sprintf(format, args...))
}

func (s *slogLogger) Errorf(err error, format string, args ...any) {
	s.l.Error(fmt.Sprintf(format, args...), "error", err)
}

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// テスト用。何も出さない
type nopLogger struct{}

func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}
func (n nopLogger) With(...any) Logger         { return n }
