package fix

import (
	"log"
	"log/slog"
)

func run(name string) {
	slog.Info("user " + "login") // want `Avoid String concatenating in log messages`

	log.Println("a" + `b` + "c") // want `Avoid String concatenating in log messages`

	slog.Warn("user " + name) // want `Avoid Object concatenating in log messages`
}
