package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Nishchay412/Social-Distribution/pkg/logger"
	"github.com/Nishchay412/Social-Distribution/services/cli/config"
	"github.com/Nishchay412/Social-Distribution/services/cli/internal/commands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	// Logs du client sur stderr pour garder stdout exploitable.
	slog.SetDefault(logger.New(os.Getenv("APP_ENV"), os.Stderr))
	os.Exit(commands.Execute(commands.NewRootCmd(cfg), os.Stderr))
}
