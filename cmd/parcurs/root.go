package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/parcurs-ro/parcurs/pkg/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "parcurs",
		Short:         "Preprocessing pipeline for Romanian magistrate career rolls",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newPreprocessCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		// the configured file logger may not exist yet, so errors go to the
		// console logger
		logging.ConsoleLogger(logrus.ErrorLevel).Error(err)
		os.Exit(exitCode(err))
	}
}
