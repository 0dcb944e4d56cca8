package a

import (
	"context"
	"fmt"
	"log"
	"log/slog"
)

type user struct{ name string }

func (u user) String() string { return u.name }

func describe() string { return "d" }

func calls(ctx context.Context, logger *slog.Logger, u user, name string, n int, args []any) {
	slog.Info("user logged in")
	slog.Info("user %s", name)
	log.Printf("user %s", name)
	slog.Info(name)
	slog.Info(u.name)
	log.Print(args...)
	logger.Info("done", "count", n)

	slog.Info("user " + "login")            // want `Avoid String concatenating in log messages`
	slog.Info(("a" + "b") + "c")            // want `Avoid String concatenating in log messages`
	slog.InfoContext(ctx, "user "+name)     // want `Avoid Object concatenating in log messages`
	logger.Warn("count " + fmt.Sprint(n))   // want `Avoid Object concatenating in log messages`
	log.Print(fmt.Sprintf("user %s", name)) // want `fmt\.Sprintf\(\) should not be used as a log message`
	log.Fatalf(fmt.Sprintf("%d", n))        // want `fmt\.Sprintf\(\) should not be used as a log message`
	slog.Error(u.String())                  // want `Avoid method call as a log message`
	logger.DebugContext(ctx, describe())    // want `Avoid method call as a log message`
	slog.Info(fmt.Sprint(n + 1))            // want `Avoid method call as a log message`

	fmt.Println("not " + "logging")
	_ = slog.String("key", "a"+name)
	_ = slog.New(slog.Default().Handler())
}
