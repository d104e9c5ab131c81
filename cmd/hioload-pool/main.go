// File: cmd/hioload-pool/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// hioload-pool drives a synthetic workload through a worker pool and reports
// its statistics. It doubles as a reference for wiring config, logging and
// metrics around the pool package.

package main

import (
	"fmt"
	"os"

	"github.com/momentics/hioload-pool/control"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	cfgViper *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "hioload-pool",
	Short: "Run and inspect hioload worker pools",
	Long: `hioload-pool starts a worker pool from flags, HIOLOAD_POOL_* environment
variables or a YAML config file, pushes a synthetic workload through it and
prints the resulting pool statistics.`,
	SilenceUsage: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := control.FromViper(cfgViper, cfgFile)
		if err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Print host platform probes",
	RunE: func(cmd *cobra.Command, args []string) error {
		dp := control.NewDebugProbes()
		control.RegisterPlatformProbes(dp)
		state := dp.DumpState()
		fmt.Fprintf(cmd.OutOrStdout(), "os: %v\ncpus: %v\n", state["platform.os"], state["platform.cpus"])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "YAML config file")
	v, err := control.BindFlags(rootCmd.PersistentFlags())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfgViper = v
	rootCmd.AddCommand(runCmd, configCmd, probeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
