package cmd

import (
	"github.com/spf13/cobra"

	"github.com/howdylabs/botkit-slack/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a botkit-slack configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the Slack app credentials and database settings and writes them to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
