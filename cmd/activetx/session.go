package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/atlanticdynamic/activetx/internal/active"
	"github.com/atlanticdynamic/activetx/internal/config"
	"github.com/atlanticdynamic/activetx/internal/docdb"
	"github.com/atlanticdynamic/activetx/internal/docmgr"
	"github.com/atlanticdynamic/activetx/internal/logging"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/urfave/cli/v3"
)

// session is the set of open documents a command works against
type session struct {
	cfg       *config.Config
	manager   *docmgr.Manager
	active    *active.Active
	logger    *slog.Logger
	logCloser io.Closer
}

// loadConfig resolves the configuration from --config, or from --path for
// a single document. --log-level overrides the configured level.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	configPath := cmd.String("config")
	dbPath := cmd.String("path")

	var cfg *config.Config
	switch {
	case configPath != "":
		var err error
		cfg, err = config.NewConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	case dbPath != "":
		cfg = config.NewSingleDocument(cmd.String("document"), dbPath)
	default:
		return nil, cli.Exit("either --config or --path flag is required", 1)
	}

	if lvl := cmd.String("log-level"); lvl != "" {
		level, err := config.LogLevelFromString(lvl)
		if err != nil {
			return nil, cli.Exit(err.Error(), 1)
		}
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// openSession loads the configuration, sets up logging and opens every
// configured document.
func openSession(cmd *cli.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	handler, logCloser, err := logging.Setup(
		cfg.Logging.LevelOrDefault(),
		cfg.Logging.FormatOrDefault(),
		cfg.Logging.Output,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	logger := slog.New(handler)

	managerOpts := []docmgr.Option{
		docmgr.WithLogHandler(handler),
		docmgr.WithEditorOutput(cmd.Root().Writer),
	}
	if !cfg.Storage.IsZero() {
		managerOpts = append(managerOpts,
			docmgr.WithDatabaseOptions(docdb.WithLevelDBOptions(levelDBOptions(cfg.Storage))))
	}
	manager := docmgr.New(managerOpts...)
	s := &session{
		cfg:       cfg,
		manager:   manager,
		logger:    logger,
		logCloser: logCloser,
	}

	for _, doc := range cfg.Documents {
		if _, err := manager.Open(doc.Name, doc.Path); err != nil {
			return nil, errors.Join(err, s.Close())
		}
	}

	activeName := cmd.String("document")
	if activeName == "" {
		activeName = cfg.ActiveDocument()
	}
	if _, ok := cfg.FindDocument(activeName); !ok {
		return nil, errors.Join(
			cli.Exit(fmt.Sprintf("document %q is not configured", activeName), 1),
			s.Close(),
		)
	}
	if err := manager.Activate(activeName); err != nil {
		return nil, errors.Join(err, s.Close())
	}

	s.active, err = active.New(manager, active.WithLogHandler(handler))
	if err != nil {
		return nil, errors.Join(err, s.Close())
	}

	logger.Debug("Session opened", "documents", len(cfg.Documents), "active", activeName)
	return s, nil
}

// levelDBOptions applies the configured storage tuning on top of the
// database defaults.
func levelDBOptions(sc config.StorageConfig) *opt.Options {
	o := docdb.DefaultOptions()
	if sc.BlockCacheMiB > 0 {
		o.BlockCacheCapacity = sc.BlockCacheMiB * opt.MiB
	}
	if sc.WriteBufferMiB > 0 {
		o.WriteBuffer = sc.WriteBufferMiB * opt.MiB
	}
	switch sc.Compression {
	case config.CompressionNone:
		o.Compression = opt.NoCompression
	case config.CompressionSnappy:
		o.Compression = opt.SnappyCompression
	}
	return &o
}

// Close closes all documents and the log output.
func (s *session) Close() error {
	return errors.Join(s.manager.CloseAll(), s.logCloser.Close())
}
