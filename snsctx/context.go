// Package snsctx carries per-call acquisition settings through context.
package snsctx

import (
	"context"
	"encoding/hex"
	"log/slog"
)

type ctxKey int

const verboseKey ctxKey = iota

// IsVerbose reports whether bus traffic should be traced for this call.
func IsVerbose(ctx context.Context) bool {
	verbose, _ := ctx.Value(verboseKey).(bool)
	return verbose
}

func SetVerbose(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, verboseKey, value)
}

// TraceBytes logs data as hex at debug level when ctx is verbose.
func TraceBytes(ctx context.Context, msg string, data []byte, args ...any) {
	if !IsVerbose(ctx) {
		return
	}
	slog.DebugContext(ctx, msg, append(args, "data", hex.EncodeToString(data))...)
}
