// Package logger provides an adsbridge.Logger backed by zerolog.
package logger

import (
	"io"
	"os"

	"github.com/opengovern/adsbridge"
	"github.com/rs/zerolog"
)

const redacted = "[REDACTED]"

// sensitive holds parameter and header names whose values are never logged.
var sensitive = map[string]bool{
	"oauth_signature": true,
	"Authorization":   true,
	"authorization":   true,
}

type ZeroLogger struct {
	logger zerolog.Logger
}

func NewZeroLog(env string) *ZeroLogger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter logs JSON lines to w. The "production" env logs at info and
// above, every other env at debug.
func NewWithWriter(env string, w io.Writer) *ZeroLogger {
	level := zerolog.DebugLevel
	if env == "production" {
		level = zerolog.InfoLevel
	}
	return &ZeroLogger{logger: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

func (l *ZeroLogger) LogRequest(level string, req *adsbridge.Request) {
	if req == nil {
		return
	}
	l.event(level).
		Str("method", req.Method).
		Str("url", req.URL()).
		Str("version", req.Version).
		Interface("query", redact(req.Query.Map())).
		Interface("body", redact(req.Body.Map())).
		Strs("files", fileNames(req.Files)).
		Interface("headers", redact(req.Headers)).
		Msg("ads api request")
}

func (l *ZeroLogger) LogResponse(level string, resp *adsbridge.Response) {
	if resp == nil {
		return
	}
	l.event(level).
		Int("status", resp.StatusCode).
		Interface("headers", resp.Headers).
		Int("bytes", len(resp.Data)).
		Msg("ads api response")
}

func (l *ZeroLogger) event(level string) *zerolog.Event {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.DebugLevel
	}
	return l.logger.WithLevel(lvl)
}

func redact(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if sensitive[k] {
			v = redacted
		}
		out[k] = v
	}
	return out
}

func fileNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	return names
}
