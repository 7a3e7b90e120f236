package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "botkit-slack",
	Short: "Multi-tenant Slack ingestion endpoint for conversational bots",
	Long: `botkit-slack receives Slack events, slash commands and interactive
callbacks for every workspace that installed the app, works out which
workspace and bot each payload belongs to, classifies it and hands it to
the conversation engine. It also serves the OAuth install flow.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "botkit.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
