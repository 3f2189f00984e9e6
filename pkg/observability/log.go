package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) OnImportStart(_ context.Context, design string) {
	h.Logger.Debug("import start", "design", design)
}

func (h LogHooks) OnImportComplete(_ context.Context, design string, cells int, d time.Duration, err error) {
	h.Logger.Debug("import done", "design", design, "cells", cells, "duration", d, "err", err)
}

func (h LogHooks) OnLegalizeComplete(_ context.Context, placed, unplaced int, disp int64, d time.Duration) {
	h.Logger.Debug("legalize done", "placed", placed, "unplaced", unplaced, "displacement", disp, "duration", d)
}

func (h LogHooks) OnPassComplete(_ context.Context, pass string, iteration, moves int, hpwl int64, d time.Duration) {
	h.Logger.Debug("pass", "pass", pass, "iteration", iteration, "moves", moves, "hpwl", hpwl, "duration", d)
}

func (h LogHooks) OnRunComplete(_ context.Context, runID string, before, after int64, d time.Duration, err error) {
	h.Logger.Debug("run done", "run", runID, "hpwl_before", before, "hpwl_after", after, "duration", d, "err", err)
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

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
)
