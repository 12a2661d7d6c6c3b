package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dormhub/vodhub"
)

func init() {
	command := &cobra.Command{
		Use:   "ingest <file> [name]",
		Short: "ingest a raw video file into the media library",
		Long:  `ingest transcodes a raw video file into a stream-ready segmented asset`,
		Args:  cobra.RangeArgs(1, 2),
		Run:   vodhub.Service.IngestCommand,
	}

	// library flags are registered on the root command already
	cobra.OnInitialize(func() {
		vodhub.Service.LibraryConfig.Set()
		vodhub.Service.Preflight()
	})

	rootCmd.AddCommand(command)
}
