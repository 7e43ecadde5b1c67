package main

import (
	goflag "flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "gverify",
	Short: "gverify, deductive verifier based on symbolic execution with updates",
	Long:  "",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var (
	Verbosity int
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&Verbosity, "verbose", "v", "log level: -v info, -vv debug, -vvv trace")
	cobra.OnInitialize(setLogLevel)
}

func setLogLevel() {
	switch {
	case Verbosity >= 3:
		log.SetLevel(log.TraceLevel)
	case Verbosity == 2:
		log.SetLevel(log.DebugLevel)
	case Verbosity == 1:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	rootCmd.AddCommand(versionCommand)
	rootCmd.AddCommand(verifyCommand)
	rootCmd.AddCommand(dumpCommand)

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
