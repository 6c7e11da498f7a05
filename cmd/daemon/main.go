package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/haldis-dev/deskd/internal/audio"
	"github.com/haldis-dev/deskd/internal/config"
	"github.com/haldis-dev/deskd/internal/mpris"
	"github.com/haldis-dev/deskd/internal/networkmanager"
	"github.com/haldis-dev/deskd/internal/runtimestate"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// AppOptions wires the full dependency graph. Exporting it lets us
// validate the graph in tests without actually starting the daemon.
var AppOptions = fx.Options(
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	fx.Provide(
		newLogger,
		config.NewPaths,
		config.NewStore,
		newRuntimeStateStore,
		newIgnoredPatterns,

		fx.Annotate(
			mpris.NewStdDBusClient,
			fx.As(new(mpris.DBusClient)),
		),
		mpris.NewManager,
		mpris.NewControls,

		fx.Annotate(
			networkmanager.NewStdDBusClient,
			fx.As(new(networkmanager.DBusClient)),
		),
		networkmanager.NewService,
		networkmanager.NewWifiControls,
		networkmanager.NewDeviceControls,
		networkmanager.NewConnectionControls,

		fx.Annotate(
			audio.NewStdPulseClient,
			fx.As(new(audio.PulseClient)),
		),
		audio.NewCoordinator,
		audio.NewDeviceControls,
		audio.NewStreamControls,
	),

	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(AppOptions)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	<-ctx.Done()

	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newLogger creates a new zap logger instance.
func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

// newRuntimeStateStore points a runtimestate.Store at the same directory
// config.Paths resolved.
func newRuntimeStateStore(paths config.Paths) *runtimestate.Store {
	return runtimestate.New(paths.Dir())
}

// newIgnoredPatterns returns the initial MPRIS ignored-bus-name substring
// list. There is no static config surface for it yet; it is mutated at
// runtime through mpris.Manager.SetIgnoredPatterns.
func newIgnoredPatterns() []string {
	return nil
}

// registerHooks wires the lifecycle of every long-running service into
// fx's start/stop sequence.
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	configStore *config.Store,
	mediaManager *mpris.Manager,
	networkService *networkmanager.Service,
	audioCoordinator *audio.Coordinator,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting deskd")

			if err := configStore.Watch(ctx); err != nil {
				logger.Warn("config hot reload disabled", zap.Error(err))
			}

			if err := mediaManager.Start(ctx); err != nil {
				return err
			}
			if err := networkService.Start(ctx); err != nil {
				return err
			}
			if err := audioCoordinator.Run(ctx); err != nil {
				return err
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping deskd")

			audioCoordinator.Stop()

			if err := networkService.Stop(); err != nil {
				logger.Error("failed to stop network manager service", zap.Error(err))
			}

			if err := mediaManager.Stop(); err != nil {
				logger.Error("failed to stop media manager", zap.Error(err))
			}

			return nil
		},
	})
}
