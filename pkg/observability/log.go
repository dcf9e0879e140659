package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to a
// logger. It is what --trace installs.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through l with a "hook" prefix.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l.WithPrefix("hook")}
}

// Install registers h for all event categories.
func (h *LogHooks) Install() {
	SetConvertHooks(h)
	SetEngineHooks(h)
	SetCacheHooks(h)
}

func (h *LogHooks) OnConvertStart(_ context.Context, source string) {
	h.logger.Debug("convert start", "source", source)
}

func (h *LogHooks) OnConvertComplete(_ context.Context, source string, vertices, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("convert failed", "source", source, "duration", d, "err", err)
		return
	}
	h.logger.Debug("convert done", "source", source, "vertices", vertices, "edges", edges, "duration", d)
}

func (h *LogHooks) OnVerifyComplete(_ context.Context, target string, ok bool, err error) {
	h.logger.Debug("verify done", "target", target, "ok", ok, "err", err)
}

func (h *LogHooks) OnEngineStart(_ context.Context, query string, threads int) {
	h.logger.Debug("engine start", "query", query, "threads", threads)
}

func (h *LogHooks) OnEngineComplete(_ context.Context, query string, threads int, status string, mappings int64, d time.Duration, err error) {
	h.logger.Debug("engine done", "query", query, "threads", threads,
		"status", status, "mappings", mappings, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ ConvertHooks = (*LogHooks)(nil)
	_ EngineHooks  = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
)
