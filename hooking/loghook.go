package hooking

import (
	"fmt"

	"go.uber.org/zap"
)

// LogHook writes every item it observes to a zap logger.
type LogHook struct {
	logger *zap.Logger
}

// NewLogHook creates a LogHook that logs at debug level.
func NewLogHook(logger *zap.Logger) *LogHook {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LogHook{logger: logger}
}

// Func logs the hook context.
func (h *LogHook) Func(ctx HookCtx) {
	fields := []zap.Field{
		zap.String("domain", DomainName(ctx)),
		zap.String("kind", ItemKind(ctx)),
	}

	if ctx.Pos != nil {
		fields = append(fields, zap.String("pos", ctx.Pos.Name))
	}

	if s, ok := ctx.Item.(fmt.Stringer); ok {
		fields = append(fields, zap.Stringer("item", s))
	}

	if ctx.Detail != nil {
		fields = append(fields, zap.Any("detail", ctx.Detail))
	}

	h.logger.Debug("hook", fields...)
}
