package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/motion"
	"github.com/Zachkp/folio/internal/page"
	"github.com/Zachkp/folio/internal/store"
)

var (
	logger      *zap.Logger
	debug       bool
	contentFile string
)

var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "Portfolio server with scroll-driven reveal, tab filtering and stat counters",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(debug)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&contentFile, "content", "", "YAML site file (overrides CONTENT_FILE)")
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd, simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// debugLogger swaps cur for a debug logger, keeping cur when build fails.
func debugLogger(cur *zap.Logger, build func(debug bool) (*zap.Logger, error)) *zap.Logger {
	l, err := build(true)
	if err != nil {
		cur.Warn("debug logger unavailable, keeping default", zap.Error(err))
		return cur
	}
	return l
}

// loadSite reads the content file and logs every repaired record.
func loadSite(path string) (*content.Site, error) {
	site, issues, err := content.Load(path)
	if err != nil {
		return nil, err
	}
	for _, is := range issues {
		logger.Warn("content repaired", zap.String("issue", is.String()))
	}
	for _, tab := range motion.NewFilterStore(site.Projects, site.Tabs).UnmatchedTabs() {
		logger.Warn("tab key matches no project category",
			zap.String("label", tab.Label), zap.String("key", tab.Key))
	}
	return site, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Debug && !debug {
		logger = debugLogger(logger, logging.New)
	}
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		cfg.Port = p
	}
	if contentFile != "" {
		cfg.ContentFile = contentFile
	}
	if !debug && !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	site, err := loadSite(cfg.ContentFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	auth, err := newAdminAuth(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return err
	}
	if cfg.UsingDefaultAdmin() {
		logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	mailer := contact.NewMailer(contact.MailConfig{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		To:   cfg.MailRecipient(),
	}, nil, logger)
	handler := contact.Multi{Required: []contact.Handler{contact.Inbox{Store: db}}, Log: logger}
	if mailer.Configured() {
		handler.Optional = append(handler.Optional, mailer)
	} else {
		logger.Warn("SMTP credentials not configured; contact messages go to the admin inbox only")
	}

	loop := motion.NewLoop()
	loop.Start(context.Background())
	defer loop.Stop()

	views := page.NewRegistry(site, loop, page.RegistryConfig{
		TTL:      cfg.ViewTTL,
		MaxViews: cfg.MaxViews,
		Frame:    cfg.FrameInterval,
	}, logger)

	a := &app{
		log:       logger,
		site:      site,
		views:     views,
		store:     db,
		contact:   handler,
		admin:     auth,
		now:       time.Now,
		retention: cfg.VisitorRetention,
	}
	a.cleanupOldViews(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(a, cfg.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return views.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
