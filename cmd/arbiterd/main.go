package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/arbiter"
	arbiterd "github.com/iov-one/arbiter/cmd/arbiterd/app"
	"github.com/iov-one/arbiter/commands/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "arbiterd",
		Short:         "Multi-party document signing ledger node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".arbiter")
	flags := root.PersistentFlags()
	flags.String(server.FlagHome, defaultHome, "directory to store files under")
	flags.String(server.FlagLogLevel, "info", "debug, info, warn or error")
	flags.String(server.FlagLogFile, "", "also write the log to this file")

	viper.SetEnvPrefix("ARBITER")
	viper.AutomaticEnv()

	// The logger is configured once the flags are parsed.
	base := logrus.New()
	logger := server.NewLogger(logrus.NewEntry(base))
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := server.ReadConfigFile(viper.GetString(server.FlagHome)); err != nil {
			return err
		}
		server.SetupLogrus(base, viper.GetString(server.FlagLogLevel), os.Stdout, viper.GetString(server.FlagLogFile))
		return nil
	}

	start := server.StartCmd(arbiterd.GenerateApp, logger.With("module", "arbiter"))
	start.Flags().String(server.FlagBind, server.DefaultBind, "address server listens on")
	start.Flags().Bool(server.FlagDebug, false, "call stack returned on error")
	start.Flags().String(server.FlagStore, server.StoreIAVL, "storage backend: iavl, badger or memory")

	root.AddCommand(
		server.InitCmd(arbiterd.GenInitOptions, logger.With("module", "init")),
		start,
		server.ValidateCmd(arbiterd.Initializers()),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(arbiter.Version())
			},
		},
	)
	return root
}
