// warren - terminal maze crawler and level editor
//
// Walk a procedurally generated maze rendered with textured quads and
// billboards in your terminal, and edit it in place: paint surfaces,
// change cell kinds, copy and paste regions, and save levels.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taigrr/warren/pkg/config"
)

var version = "dev"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configFile string
	envFile    string
	logLevel   string

	cfg    *config.Config
	log    *logrus.Logger
	closer io.Closer
}

// setup loads the configuration and the logger. interactive routes logs
// away from the terminal.
func (a *app) setup(interactive bool) error {
	cfg, err := config.Load(config.Options{File: a.configFile, EnvFile: a.envFile})
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	log, closer, err := newLogger(cfg.Log, interactive)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = cfg, log, closer
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "warren",
		Short: "Terminal maze crawler and level editor",
		Long: `warren renders a grid of stacked blocks as textured quads in your terminal.
Walk or fly through generated mazes and edit them as you go.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default warren.yaml in . or ~/.config/warren)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "env file loaded before WARREN_* variables are read (default .env)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		newRunCmd(a),
		newGenerateCmd(a),
		newSnapshotCmd(a),
		newInfoCmd(a),
	)
	return root
}

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

// errorf prefixes errors with the subcommand name.
func errorf(cmd *cobra.Command, err error) error {
	return fmt.Errorf("%s: %w", cmd.Name(), err)
}
