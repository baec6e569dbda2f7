package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sarchlab/carousel/hooking"
	"github.com/sarchlab/carousel/monitoring"
	"github.com/sarchlab/carousel/timing"
	"github.com/sarchlab/carousel/viewport"
	"github.com/sarchlab/carousel/widget"
)

var (
	servePort    int
	serveOpen    bool
	serveWidth   int
	serveCatalog string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run every widget variant in real time behind the HTTP monitor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt,
			syscall.SIGTERM)
		defer stop()

		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"monitor port; defaults to the configured port or a random one")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false,
		"open the monitor in the browser")
	serveCmd.Flags().IntVar(&serveWidth, "width", 1280,
		"initial viewport width in pixels")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "",
		"YAML file with slides, clients and testimonials")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	catalog, err := loadCatalog(serveCatalog)
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 && appConfig != nil {
		port = appConfig.Monitor.Port
	}

	engine := timing.NewRealtimeEngine()
	vp := viewport.NewBroadcaster(serveWidth)

	monitor := monitoring.NewMonitor().WithLogger(logger).WithPortNumber(port)
	monitor.RegisterEngine(engine)
	monitor.RegisterViewport(vp)

	var views []carouselView

	defer func() {
		for _, v := range views {
			v.close()
		}
	}()

	for _, variant := range widget.Variants() {
		cfg, err := variantConfig(appConfig, variant)
		if err != nil {
			return fmt.Errorf("variant %s: %w", variant, err)
		}

		v := buildView(variant, cfg, catalog, engine, vp, hooking.NewLogHook(logger))
		views = append(views, v)
		monitor.RegisterCarousel(v.carousel)
	}

	url, err := monitor.StartServer()
	if err != nil {
		return err
	}

	if serveOpen {
		if err := browser.OpenURL(url); err != nil {
			logger.Warn("cannot open browser", zap.Error(err))
		}
	}

	go func() {
		<-ctx.Done()
		engine.Close()
	}()

	runErr := engine.Run()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := monitor.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}

	return runErr
}
