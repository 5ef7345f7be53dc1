package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cdripper/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Create and inspect the configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand(ctx))
	cmd.AddCommand(newConfigPathCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var target string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := writeSampleConfig(target, overwrite)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", written)
			fmt.Fprintln(out, "Check drive.device and paths.output_dir, then run `cdrip doctor`.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "path", "p", "", "Destination (defaults to ~/.config/cdrip/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// writeSampleConfig writes the sample to target, or the default location
// when target is blank, and returns the path written.
func writeSampleConfig(target string, overwrite bool) (string, error) {
	var err error
	if target = strings.TrimSpace(target); target == "" {
		target, err = config.DefaultConfigPath()
	} else {
		target, err = config.ExpandPath(target)
	}
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}

	if !overwrite {
		_, statErr := os.Stat(target)
		switch {
		case statErr == nil:
			return "", fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
		case !errors.Is(statErr, fs.ErrNotExist):
			return "", fmt.Errorf("check config path: %w", statErr)
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := config.CreateSample(target); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return target, nil
}

// loadForDisplay loads the configuration without creating directories so
// the read-only config commands leave the system untouched.
func loadForDisplay(ctx *commandContext) (*config.Config, string, bool, error) {
	path := ""
	if ctx.configFlag != nil {
		path = strings.TrimSpace(*ctx.configFlag)
	}
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		return nil, resolved, exists, fmt.Errorf("load config: %w", err)
	}
	return cfg, resolved, exists, nil
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolved, exists, err := loadForDisplay(ctx)
			if err != nil {
				return err
			}
			encoded, err := cfg.Encode()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "# %s\n", resolved)
			} else {
				fmt.Fprintf(out, "# %s not found; showing defaults\n", resolved)
			}
			fmt.Fprint(out, encoded)
			return nil
		},
	}
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where configuration, history and logs live",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolved, exists, err := loadForDisplay(ctx)
			if err != nil {
				return err
			}
			rows := [][]string{
				{"Config", resolved, yesNo(exists)},
				{"History", cfg.HistoryPath(), yesNo(pathExists(cfg.HistoryPath()))},
				{"Log file", cfg.LogFilePath(), yesNo(pathExists(cfg.LogFilePath()))},
				{"Output", cfg.Paths.OutputDir, yesNo(pathExists(cfg.Paths.OutputDir))},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", []column{left("Item"), left("Path"), left("Exists")}, rows))
			return nil
		},
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
