package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/firefly-engineering/bountybridge/cmd"
	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.UserError("%v", err)
		os.Exit(errors.GetExitCode(err))
	}
}
