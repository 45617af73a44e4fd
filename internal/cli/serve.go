package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickfall/pkg/pipeline"
	"github.com/matzehuels/brickfall/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes settling, analysis, rendering and run history over HTTP.
The listen address defaults to [server] addr from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.config.Server.Addr
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, loggerFromContext(ctx),
				server.WithWorkers(c.config.Workers),
				server.WithMaxBody(maxBody))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else "+pipeline.DefaultServerAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "maximum request body size in bytes")

	return cmd
}
