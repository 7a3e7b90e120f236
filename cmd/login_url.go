package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/howdylabs/botkit-slack/internal/oauth"
)

var loginURLCmd = &cobra.Command{
	Use:   "login-url",
	Short: "Print the Slack install URL",
	Long:  `Prints the authorize URL a workspace admin visits to install the app. The embedded state expires after ten minutes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Slack.CheckOAuth(); err != nil {
			return err
		}
		state, err := oauth.NewState(cfg.Slack.ClientSecret, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), oauth.LoginURL(cfg.Slack, state))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginURLCmd)
}
