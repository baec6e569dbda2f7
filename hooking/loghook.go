package hooking

import (
	"go.uber.org/zap"
)

// A LogHook writes every hook invocation it receives as a structured log
// entry.
type LogHook struct {
	logger *zap.Logger
	filter func(ctx HookCtx) bool
}

// NewLogHook creates a LogHook that writes to the given logger. A nil logger
// disables logging.
func NewLogHook(logger *zap.Logger) *LogHook {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LogHook{logger: logger}
}

// WithFilter only logs the hook invocations for which filter returns true.
func (h *LogHook) WithFilter(filter func(ctx HookCtx) bool) *LogHook {
	h.filter = filter
	return h
}

// Func logs the hook context.
func (h *LogHook) Func(ctx HookCtx) {
	if h.filter != nil && !h.filter(ctx) {
		return
	}

	fields := []zap.Field{
		zap.String("pos", posName(ctx.Pos)),
		zap.Any("item", ctx.Item),
	}

	if named, ok := ctx.Domain.(NamedHookable); ok {
		fields = append(fields, zap.String("domain", named.Name()))
	}

	if ctx.Detail != nil {
		fields = append(fields, zap.Any("detail", ctx.Detail))
	}

	h.logger.Debug("hook", fields...)
}

func posName(pos *HookPos) string {
	if pos == nil {
		return ""
	}

	return pos.Name
}
