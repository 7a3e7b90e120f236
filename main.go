package main

import (
	"os"

	"github.com/howdylabs/botkit-slack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
