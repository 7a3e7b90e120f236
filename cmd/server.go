package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/howdylabs/botkit-slack/internal/bots"
	"github.com/howdylabs/botkit-slack/internal/config"
	"github.com/howdylabs/botkit-slack/internal/credentials"
	"github.com/howdylabs/botkit-slack/internal/db"
	"github.com/howdylabs/botkit-slack/internal/oauth"
	"github.com/howdylabs/botkit-slack/internal/pipeline"
	"github.com/howdylabs/botkit-slack/internal/server"
	"github.com/howdylabs/botkit-slack/internal/tenant"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Slack receive and install endpoints",
	Long:  `Starts the HTTP server that receives Slack payloads on /slack/receive and serves the OAuth install flow on /slack/login and /slack/oauth.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		log, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer log.Sync()

		database, err := db.Open(string(cfg.Database.Driver), cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, database, log)

		if err := registerAllRoutes(srv, cfg, credentials.NewStore(database), log); err != nil {
			return err
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		log.Info("botkit-slack starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Server.Port),
			zap.String("database", string(cfg.Database.Driver)),
			zap.Strings("listen", cfg.Engine.Listen),
		)

		return srv.Start()
	},
}

// registerAllRoutes wires the receive endpoint and, when the app
// credentials are configured, the install endpoints.
func registerAllRoutes(srv *server.Server, cfg *config.Config, store credentials.Store, log *zap.Logger) error {
	r := srv.Router()

	// Receive endpoint
	resolver := tenant.NewResolver(store, cfg.Slack.APIRoot, log)
	gateway := bots.NewGateway(bots.NewProcessor(), cfg.Engine.Listen, log)
	slackHandler := bots.NewSlackHandler(resolver, pipeline.New(), gateway, bots.SlackOptions{
		SigningSecret:     cfg.Slack.SigningSecret,
		VerificationToken: cfg.Slack.VerificationToken,
	}, log)
	bots.RegisterRoutes(r, slackHandler)

	// Install flow
	if err := cfg.Slack.CheckOAuth(); err != nil {
		if errors.Is(err, config.ErrConfigurationMissing) {
			log.Error("oauth routes disabled", zap.Error(err))
			return nil
		}
		return err
	}
	exchanger, err := oauth.NewSlackExchanger(cfg.Slack, nil)
	if err != nil {
		return fmt.Errorf("creating oauth exchanger: %w", err)
	}
	oauth.RegisterRoutes(r, oauth.NewHandler(oauth.NewService(exchanger, store, log), cfg.Slack, log))
	return nil
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 3000, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
