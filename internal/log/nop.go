package log

import "context"

// nopLogger discards everything; used as the context fallback and in tests.
type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, kv ...any)               {}
func (nopLogger) Info(ctx context.Context, msg string, kv ...any)                {}
func (nopLogger) Warn(ctx context.Context, msg string, kv ...any)                {}
func (nopLogger) Error(ctx context.Context, err error, msg string, kv ...any)    {}
func (nopLogger) Critical(ctx context.Context, err error, msg string, kv ...any) {}
func (nopLogger) Sync() error                                                    { return nil }

func (n nopLogger) With(kv ...any) Logger { return n }

// Nop returns a no-op Logger.
func Nop() Logger { return nopLogger{} }
