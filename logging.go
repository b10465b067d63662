package cmap

import "github.com/rs/zerolog"

// logHook wraps an optional zerolog.Logger (C12). It is nil on a Map
// that never called WithLogger, in which case every method below is a
// no-op guarded at the call site — logging never participates in
// control flow or return values.
type logHook struct {
	l zerolog.Logger
}

func (h *logHook) split(level, entries int) {
	if h == nil {
		return
	}
	h.l.Debug().
		Int("level", level).
		Int("entries", entries).
		Msg("leaf split")
}

func (h *logHook) collapse(fused int) {
	if h == nil {
		return
	}
	h.l.Debug().
		Int("fused", fused).
		Msg("resize collapse")
}

func (h *logHook) pruneCollapse(level, size int) {
	if h == nil {
		return
	}
	h.l.Debug().
		Int("level", level).
		Int("size", size).
		Msg("prune collapse")
}

func (h *logHook) clear() {
	if h == nil {
		return
	}
	h.l.Debug().Msg("clear")
}
