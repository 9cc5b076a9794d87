package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/aiquiz/internal/relay"
	"github.com/abhisek/aiquiz/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the AI relay backend",
	Long: `Run the HTTP relay that forwards chat-completion requests to the AI provider.
The provider key (GROQ_API_KEY) stays on the server; clients point AI_ENDPOINT at
http://<host>:<PORT>/api/generate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := relay.ConfigFromEnv()
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}
		lambdaMode, _ := cmd.Flags().GetBool("lambda")
		if lambdaMode {
			logrus.SetFormatter(&logrus.JSONFormatter{})
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Translated upstreams log their calls; the event log is optional
		// for the relay, so a store that cannot open is only a warning.
		var events store.EventRepo
		if logEvents, _ := cmd.Flags().GetBool("log-events"); logEvents {
			st, _, err := openStore(cmd)
			if err != nil {
				logrus.WithError(err).Warn("LLM event log disabled")
			} else {
				defer st.Close()
				events = st.EventRepo()
			}
		}

		handler, err := relay.New(ctx, cfg, events)
		if err != nil {
			return fmt.Errorf("configure relay: %w", err)
		}
		if cfg.ProviderKey == "" {
			logrus.Warn("GROQ_API_KEY is not set; upstream calls will be rejected")
		}

		if lambdaMode {
			relay.StartLambda(handler)
			return nil
		}
		logrus.WithFields(logrus.Fields{
			"upstream": cfg.Upstream,
			"model":    cfg.Model,
		}).Info("starting relay")
		return relay.Serve(ctx, cfg, handler)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Listen port (overrides PORT env var)")
	serveCmd.Flags().Bool("lambda", false, "Serve behind AWS API Gateway instead of listening on a port")
	serveCmd.Flags().Bool("log-events", false, "Record translated upstream calls in the local LLM event log")
}
