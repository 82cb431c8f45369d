package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "brandedtube",
		Short:         "White-label player pages and embed codes for YouTube videos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")

	root.AddCommand(
		newServeCmd(&configFile),
		newLinkCmd(&configFile),
		newEmbedCmd(&configFile),
	)
	return root
}
