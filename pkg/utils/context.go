package utils

import (
	"context"

	"go.uber.org/zap"
)

// ContextGuard reports whether ctx is done. Loops check it before each
// unit of work so a cancelled sweep or import stops early.
func ContextGuard(ctx context.Context) bool {
	return ctx.Err() != nil
}

// ContextGuardWithLog is ContextGuard that also logs msg with the
// cancellation cause and any extra fields. A nil logger logs nothing.
func ContextGuardWithLog(ctx context.Context, logger *zap.Logger, msg string, fields ...zap.Field) bool {
	if ctx.Err() == nil {
		return false
	}

	if logger != nil {
		logger.Info(msg, append(fields, zap.NamedError("cause", context.Cause(ctx)))...)
	}
	return true
}
