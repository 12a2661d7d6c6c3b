package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dormhub/vodhub"
)

func init() {
	command := &cobra.Command{
		Use:   "serve",
		Short: "serve vodhub server",
		Long:  `serve vodhub catalog and repackaging server`,
		Run:   vodhub.Service.ServeCommand,
	}

	configs := []Config{
		vodhub.Service.ServerConfig,
		vodhub.Service.LibraryConfig,
	}

	cobra.OnInitialize(func() {
		for _, cfg := range configs {
			cfg.Set()
		}
		vodhub.Service.Preflight()
	})

	// library flags are registered on the root command already
	if err := vodhub.Service.ServerConfig.Init(command); err != nil {
		log.Panic().Err(err).Msg("unable to run serve command")
	}

	rootCmd.AddCommand(command)
}
