package custom

import "context"

type Logger struct{}

func (Logger) Trace(ctx context.Context, msg string, args ...any) {}

func (Logger) Close() {}

func run(ctx context.Context, l Logger, name string) {
	l.Trace(ctx, "trace")
	l.Trace(ctx, "trace "+name) // want `Avoid Object concatenating in log messages`
	l.Close()
}
