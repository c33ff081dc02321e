package cli

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corsserve/corsserve/internal/api"
	"github.com/corsserve/corsserve/internal/api/handlers"
	"github.com/corsserve/corsserve/internal/buildinfo"
	"github.com/corsserve/corsserve/internal/server"
	"github.com/corsserve/corsserve/pkg/config"
	"github.com/corsserve/corsserve/pkg/logger"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "corsserve",
		Short:        "Serve a directory over HTTP with open CORS and caching disabled",
		Args:         cobra.NoArgs,
		Version:      buildinfo.String(),
		SilenceUsage: true,
		RunE:         run,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	if _, err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.L()

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		root = cfg.Root
	}

	router := api.NewRouter(api.Dependencies{
		Logger:         log,
		Static:         handlers.NewStaticHandler(root),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Compress:       cfg.Compress,
	})

	srv := server.New(cfg.Addr(), router,
		server.WithLogger(log),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
	)
	if err := srv.Listen(); err != nil {
		log.Error("failed to start server", zap.String("addr", cfg.Addr()), zap.Error(err))
		return err
	}

	url := cfg.URL()
	if cfg.Port == 0 {
		url = "http://" + srv.Addr() + "/"
	}
	out := cmd.OutOrStdout()
	server.WriteBanner(out, url, root)
	log.Debug("serving",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", srv.Addr()),
		zap.String("root", root),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		log.Error("server error", zap.Error(err))
		return err
	}
	server.WriteStopped(out)
	return nil
}
