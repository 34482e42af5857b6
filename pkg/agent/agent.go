// Package agent wires the adapter bridge together: logger, device log,
// config watching, the USB session and the poll loop.
package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/gcbridge/gcbridge/gcpad"
	"github.com/gcbridge/gcbridge/internal/adaptersvc"
	"github.com/gcbridge/gcbridge/internal/configsvc"
	"github.com/gcbridge/gcbridge/internal/devicelog"
	"github.com/gcbridge/gcbridge/n64"
)

type Agent struct {
	config     Config
	configPath string
	log        *zap.Logger

	db         *badger.DB
	configSvc  *configsvc.Service
	deviceLog  *devicelog.Service
	adapterSvc *adaptersvc.Service
}

func NewAgent(configPath string, config Config) (*Agent, error) {
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000000")
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	dbOptions := badger.DefaultOptions(filepath.Join(config.DataDir, "db"))
	dbOptions.Logger = &badgerLogger{l: logger.Named("badger")}

	db, err := badger.Open(dbOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &Agent{
		config:     config,
		configPath: configPath,
		log:        logger,
		db:         db,
		configSvc:  configsvc.New(logger.Named("config")),
		deviceLog:  devicelog.New(db, logger.Named("devicelog"), time.Now),
	}, nil
}

func (a *Agent) Close() error {
	return a.db.Close()
}

type badgerLogger struct {
	l *zap.Logger
}

func (l badgerLogger) Errorf(msg string, args ...any) {
	l.l.Error(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Warningf(msg string, args ...any) {
	l.l.Warn(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Infof(msg string, args ...any) {
	l.l.Info(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Debugf(msg string, args ...any) {
	l.l.Debug(fmt.Sprintf(msg, args...))
}

// Run connects to the adapter and blocks until the context is cancelled.
// Startup order is fixed: connect the session, seed the state cell, start the
// poll loop; Query answers live data only after that. Connect-stage failures
// abort startup with a distinct reason and are never retried here.
func (a *Agent) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session, err := adaptersvc.Connect(a.log.Named("adapter"))
	if err != nil {
		return fmt.Errorf("adapter connect: %w", err)
	}
	defer session.Close()

	if _, err := a.deviceLog.RecordConnect(session.ID(), session.Name()); err != nil {
		a.log.Warn("failed to record adapter sighting", zap.Error(err))
	}

	a.adapterSvc = adaptersvc.New(a.log.Named("poll"), session,
		adaptersvc.WithPollInterval(time.Duration(a.config.Adapter.PollInterval)),
		adaptersvc.WithReadTimeout(time.Duration(a.config.Adapter.ReadTimeout)),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.configSvc.Start(groupCtx)
	})
	group.Go(func() error {
		a.watchConfig(groupCtx)
		return nil
	})
	group.Go(func() error {
		return a.adapterSvc.Start(groupCtx)
	})

	err = group.Wait()
	if err != nil {
		return fmt.Errorf("agent failed: %w", err)
	}
	return nil
}

// watchConfig applies poll timing changes from the config file to the running
// loop. A missing config file just means there is nothing to watch.
func (a *Agent) watchConfig(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-a.configSvc.Ready():
	}
	if _, err := os.Stat(a.configPath); err != nil {
		return
	}
	_, err := configsvc.Watch(a.configSvc, a.configPath, a.config, func(config Config, err error) {
		if err != nil {
			a.log.Error("failed to reload config", zap.Error(err))
			return
		}
		a.adapterSvc.SetPollInterval(time.Duration(config.Adapter.PollInterval))
		a.adapterSvc.SetReadTimeout(time.Duration(config.Adapter.ReadTimeout))
		a.log.Info("config reloaded",
			zap.Duration("pollInterval", time.Duration(config.Adapter.PollInterval)),
			zap.Duration("readTimeout", time.Duration(config.Adapter.ReadTimeout)))
	})
	if err != nil {
		a.log.Warn("config file not watched", zap.Error(err))
	}
}

// Query implements the downstream plugin contract: whether the port holds a
// connected controller and, if so, its mapped state.
func (a *Agent) Query(port int) (n64.Mapped, bool) {
	if a.adapterSvc == nil {
		return n64.Mapped{}, false
	}
	return a.adapterSvc.Query(port)
}

// ReadState connects to the adapter, performs a single read and returns the
// decoded state of all four ports.
func (a *Agent) ReadState(ctx context.Context) (gcpad.InputState, error) {
	session, err := adaptersvc.Connect(a.log.Named("adapter"))
	if err != nil {
		return gcpad.InputState{}, fmt.Errorf("adapter connect: %w", err)
	}
	defer session.Close()

	raw, err := session.Read(ctx, time.Duration(a.config.Adapter.ReadTimeout))
	if err != nil {
		return gcpad.InputState{}, fmt.Errorf("adapter read: %w", err)
	}
	return gcpad.Decode(raw), nil
}

func (a *Agent) DeviceLog() *devicelog.Service {
	return a.deviceLog
}
