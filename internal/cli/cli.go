// Package cli wires the engine's save/load/delete/modify/status/recover
// operations to a cobra command tree, following the rootCmd/leaf-command
// layout and logrus-for-feedback style of this project family's other CLIs
// (raid-simulator, math-game, quorum-election).
package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Anthya1104/raid6store/internal/config"
	"github.com/Anthya1104/raid6store/internal/logger"
	"github.com/Anthya1104/raid6store/internal/raid"
)

var (
	cfgPath  string
	name     string
	inPath   string
	outPath  string
	verify   bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "raid6store",
	Short: "A single-node RAID-6 storage engine",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info",
	Run: func(cmd *cobra.Command, args []string) {
		logrus.Infof("raid6store %s", config.Version)
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a file's bytes under a name",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := openController()
		if err != nil {
			return err
		}
		defer ctl.Close()

		data, err := os.ReadFile(inPath)
		if err != nil {
			return errors.Wrapf(err, "cli: read %s", inPath)
		}
		if err := ctl.Save(name, data); err != nil {
			return err
		}
		logrus.Infof("saved %q (%d bytes)", name, len(data))
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a saved file's bytes to a path",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := openController()
		if err != nil {
			return err
		}
		defer ctl.Close()

		data, err := ctl.Load(name, verify)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return errors.Wrapf(err, "cli: write %s", outPath)
		}
		logrus.Infof("loaded %q (%d bytes) to %s", name, len(data), outPath)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a saved file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := openController()
		if err != nil {
			return err
		}
		defer ctl.Close()

		if err := ctl.Delete(name); err != nil {
			return err
		}
		logrus.Infof("deleted %q", name)
		return nil
	},
}

var modifyCmd = &cobra.Command{
	Use:   "modify",
	Short: "Overwrite a saved file's bytes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := openController()
		if err != nil {
			return err
		}
		defer ctl.Close()

		data, err := os.ReadFile(inPath)
		if err != nil {
			return errors.Wrapf(err, "cli: read %s", inPath)
		}
		if err := ctl.Modify(name, data); err != nil {
			return err
		}
		logrus.Infof("modified %q (%d bytes)", name, len(data))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show free space and per-disk liveness",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := openController()
		if err != nil {
			return err
		}
		defer ctl.Close()

		stats := ctl.Stats()
		logrus.Infof("left_size=%d files=%d", stats.LeftSize, len(stats.Files))
		for i, healthy := range stats.DiskHealthy {
			label := color.GreenString("good")
			if !healthy {
				label = color.RedString("failed")
			}
			suffix := ""
			if stats.NeedsRecovery[i] {
				suffix = color.YellowString(" (needs recovery)")
			}
			logrus.Infof("disk%d: %s%s", i, label, suffix)
		}
		return nil
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Probe disk liveness and reconstruct any lost content",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := openController()
		if err != nil {
			return err
		}
		defer ctl.Close()

		if err := ctl.ProbeDisks(); err != nil {
			return err
		}
		if err := ctl.RecoverDisks(); err != nil {
			return err
		}
		logrus.Info("recovery complete")
		return nil
	},
}

func openController() (*raid.Controller, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if rootCmd.PersistentFlags().Changed("log-level") {
		level = logLevel
	}
	if err := logger.InitFileLogger(level, cfg.LogFilePath); err != nil {
		return nil, errors.Wrap(err, "cli: init logger")
	}

	return raid.New(cfg)
}

// InitCLI builds the command tree and returns the root command.
func InitCLI() *cobra.Command {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "directory to search for raid6store.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.LogLevelInfo, "log level (debug|info|warn|error)")

	saveCmd.Flags().StringVar(&name, "name", "", "file name to save under")
	saveCmd.Flags().StringVar(&inPath, "in", "", "path of the file to read")

	loadCmd.Flags().StringVar(&name, "name", "", "file name to load")
	loadCmd.Flags().StringVar(&outPath, "out", "", "path to write the loaded bytes to")
	loadCmd.Flags().BoolVar(&verify, "verify", false, "verify stripe parity before reading")

	deleteCmd.Flags().StringVar(&name, "name", "", "file name to delete")

	modifyCmd.Flags().StringVar(&name, "name", "", "file name to modify")
	modifyCmd.Flags().StringVar(&inPath, "in", "", "path of the replacement bytes")

	rootCmd.AddCommand(versionCmd, saveCmd, loadCmd, deleteCmd, modifyCmd, statusCmd, recoverCmd)
	return rootCmd
}

// ExecuteCmd runs the CLI's root command.
func ExecuteCmd() error {
	return InitCLI().Execute()
}
