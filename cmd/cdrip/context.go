package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cdripper/internal/config"
	"cdripper/internal/history"
	"cdripper/internal/logging"
	"cdripper/internal/workflow"
)

type commandContext struct {
	configFlag *string
	logConsole *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, logConsole *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logConsole: logConsole,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the file logger. Job progress is printed from events,
// so the console copy is discarded unless --log-console is set.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		var console io.Writer = io.Discard
		if c.logConsole != nil && *c.logConsole {
			console = os.Stderr
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:      cfg.Logging.Level,
			Format:     cfg.Logging.Format,
			Console:    console,
			FilePath:   cfg.LogFilePath(),
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		})
	})
	return c.logger, c.loggerErr
}

// openHistory returns nil without error when history is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// withManager builds a workflow manager for the duration of fn.
func (c *commandContext) withManager(fn func(*config.Config, *workflow.Manager) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	store, err := c.openHistory()
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this job will not be recorded"),
		)
	}
	var opts []workflow.Option
	if store != nil {
		defer store.Close()
		opts = append(opts, workflow.WithHistory(store))
	}
	return fn(cfg, workflow.NewManager(cfg, logger, opts...))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
