package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/seamarks/poisync/internal/config"
	"github.com/seamarks/poisync/internal/dispatcher"
	"github.com/seamarks/poisync/internal/influx"
	"github.com/seamarks/poisync/internal/logging"
	"github.com/seamarks/poisync/internal/parser"
	"github.com/seamarks/poisync/internal/storage"
	"github.com/seamarks/poisync/internal/worker"
	"github.com/seamarks/poisync/pkg/core"
)

var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "poisync"
)

var errUsage = errors.New("usage: poisync [--config dir] [--export] <command> <file.json> [tileX tileY]")

// cliArgs is the parsed command line.
type cliArgs struct {
	ConfigDir string
	Export    bool
	Command   string
	File      string
	Tile      *core.TileCoordinate
}

func parseArgs(args []string, stderr io.Writer) (cliArgs, error) {
	var out cliArgs
	var showVersion bool

	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&out.ConfigDir, "config", "c", ".", "directory containing "+config.FileName)
	fs.BoolVar(&out.Export, "export", false, "write a storage snapshot after applying (memory storage only)")
	fs.BoolVarP(&showVersion, "version", "v", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, errUsage.Error())
		fmt.Fprintln(stderr, "commands:", strings.Join(commands(), ", "))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return out, err
	}
	if showVersion {
		out.Command = "version"
		return out, nil
	}

	pos := fs.Args()
	if len(pos) != 2 && len(pos) != 4 {
		return out, errUsage
	}
	out.Command = pos[0]
	out.File = pos[1]

	if len(pos) == 4 {
		x, err := strconv.ParseInt(pos[2], 10, 32)
		if err != nil {
			return out, fmt.Errorf("invalid tileX %q: %w", pos[2], err)
		}
		y, err := strconv.ParseInt(pos[3], 10, 32)
		if err != nil {
			return out, fmt.Errorf("invalid tileY %q: %w", pos[3], err)
		}
		out.Tile = &core.TileCoordinate{X: int32(x), Y: int32(y)}
	}

	known := false
	for _, c := range commands() {
		if c == out.Command {
			known = true
			break
		}
	}
	if !known {
		return out, fmt.Errorf("unknown command %q", out.Command)
	}
	if out.Tile == nil && (out.Command == worker.OpSyncMarkers || out.Command == worker.OpSyncReviews) {
		return out, fmt.Errorf("%s requires tileX and tileY", out.Command)
	}
	return out, nil
}

func commands() []string {
	return []string{
		worker.OpCreateMarker,
		worker.OpMoveMarker,
		worker.OpSyncMarkers,
		worker.OpSyncReviews,
		worker.OpVoteReview,
		worker.OpWebView,
		worker.OpExport,
		worker.OpSyncStatus,
		worker.OpTiles,
	}
}

// app holds the services wired for one invocation.
type app struct {
	SessionStartTime time.Time

	logger  *slog.Logger
	logs    *logging.SlogManager
	zlog    zerolog.Logger
	logFile io.WriteCloser

	backend         storage.Backend
	influxManager   *influx.Manager
	eventDispatcher *dispatcher.Dispatcher
	workerManager   *worker.Manager
}

// setup loads config and starts logging. It never fails on a missing config
// file; defaults apply instead.
func setup(configDir string) (*app, error) {
	a := &app{SessionStartTime: time.Now()}

	configErr := config.Load(configDir)
	logCfg := config.GetLoggingConfig()

	if err := os.MkdirAll(logCfg.LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs dir: %w", err)
	}
	logPath := logging.LogFilePath(logCfg.LogsDir, AppName, a.SessionStartTime)
	a.logFile = logging.NewRotatingFile(logPath)

	opts := logging.Options{
		Level: logCfg.Level,
		File:  a.logFile,
		Context: func() []slog.Attr {
			return []slog.Attr{slog.String("storage", viper.GetString("storage.type"))}
		},
	}

	var graylogErr error
	if logCfg.GraylogEnabled {
		w, err := logging.NewGraylogWriter(logCfg.GraylogAddress, AppName)
		if err != nil {
			graylogErr = err
		} else {
			opts.Graylog = w
		}
	}

	a.logs = logging.NewSlogManager()
	a.logs.Setup(opts)
	a.logger = a.logs.Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(logCfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	a.zlog = zerolog.New(zerolog.ConsoleWriter{Out: a.logFile, NoColor: true, TimeFormat: time.RFC3339}).Level(level).With().Timestamp().Str("app", AppName).Logger()

	if configErr != nil {
		a.logger.Warn("Failed to load config, using defaults!", "error", configErr)
	} else {
		a.logger.Info("Loaded config", "path", filepath.Join(configDir, config.FileName))
	}
	if graylogErr != nil {
		a.logger.Warn("Graylog disabled", "error", graylogErr)
	}
	a.logger.Info("Begin logging in logs directory", "path", logPath, "version", CurrentVersion, "build", BuildDate)
	return a, nil
}

func (a *app) initInflux() {
	cfg := config.GetInfluxConfig()
	if !cfg.Enabled {
		return
	}
	backup := filepath.Join(config.GetLoggingConfig().LogsDir, "influx_backup.log.gz")
	m := influx.NewManager(cfg, a.zlog, backup)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Connect(ctx); err != nil {
		a.logger.Warn("Update metrics disabled", "error", err)
		return
	}
	a.influxManager = m
}

func (a *app) close() {
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Error("Failed to close storage", "error", err)
		}
	}
	if a.influxManager != nil {
		if err := a.influxManager.Close(); err != nil {
			a.logger.Error("Failed to close influx", "error", err)
		}
	}
	a.logger.Info("Shutting down", "duration", time.Since(a.SessionStartTime))
	a.logs.Close()
}

func run(args []string, stdout, stderr io.Writer) error {
	cli, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if cli.Command == "version" {
		fmt.Fprintf(stdout, "%s %s (%s)\n", AppName, CurrentVersion, BuildDate)
		return nil
	}

	payload, err := os.ReadFile(cli.File)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	a, err := setup(cli.ConfigDir)
	if err != nil {
		return err
	}
	defer a.close()

	a.initInflux()
	if err := a.initStorage(); err != nil {
		return err
	}

	result, dispatchErr := a.eventDispatcher.Dispatch(dispatcher.Event{
		Command: cli.Command,
		Payload: payload,
		Tile:    cli.Tile,
	})
	if result != nil {
		if err := writeResult(stdout, result); err != nil {
			return err
		}
	}
	if dispatchErr != nil {
		return dispatchErr
	}

	if cli.Export {
		path, err := a.export()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, "snapshot:", path)
	}
	return nil
}

func newParser(logger *slog.Logger) parser.Service {
	return parser.NewParser(logger.With("component", "parser"))
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
