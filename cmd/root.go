package cmd

import (
	"fmt"
	"os"

	"github.com/jcarreira/ramcloud/cmd/seg"
	"github.com/jcarreira/ramcloud/cmd/serve"
	"github.com/jcarreira/ramcloud/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "ramcloud-backup",
		Short: "segment backup service for in-memory storage masters",
		Long: fmt.Sprintf(`ramcloud-backup (v%s)

A segment replication service written in Go. Masters stream log
segments to backup hosts over a compact binary RPC protocol; the
backups persist the segments and serve them back during recovery.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ramcloud-backup",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ramcloud-backup v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(seg.SegmentCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
