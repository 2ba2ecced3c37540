package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "answerly",
		Short:         "Answerly: manage a Discord bot's questions and answers per server",
		Long:          "answerly serves a web dashboard where Discord server administrators log in with Discord and manage the question/answer pairs the bot replies with.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	serveCmd := newServeCmd()
	rootCmd.RunE = serveCmd.RunE

	rootCmd.AddCommand(
		serveCmd,
		newVersionCmd(),
	)

	return rootCmd
}
