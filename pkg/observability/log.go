package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// charm logger. The CLI registers it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) OnDeriveStart(_ context.Context, preset string, steps int) {
	h.Logger.Debug("derive start", "preset", preset, "steps", steps)
}

func (h LogHooks) OnDeriveComplete(_ context.Context, preset string, steps, symbols int, d time.Duration, err error) {
	h.Logger.Debug("derive done", "preset", preset, "steps", steps, "symbols", symbols, "duration", d, "err", err)
}

func (h LogHooks) OnInterpretStart(_ context.Context, mode string, symbols int) {
	h.Logger.Debug("interpret start", "mode", mode, "symbols", symbols)
}

func (h LogHooks) OnInterpretComplete(_ context.Context, mode string, polygons int, d time.Duration, err error) {
	h.Logger.Debug("interpret done", "mode", mode, "polygons", polygons, "duration", d, "err", err)
}

func (h LogHooks) OnExportStart(_ context.Context, formats []string) {
	h.Logger.Debug("export start", "formats", formats)
}

func (h LogHooks) OnExportComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("export done", "formats", formats, "duration", d, "err", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Error("request failed", "method", method, "path", path, "err", err)
}

// Register installs h for all hook categories.
func (h LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ HTTPHooks     = LogHooks{}
)
