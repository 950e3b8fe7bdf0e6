package seg

import (
	"github.com/jcarreira/ramcloud/cmd/util"
	"github.com/jcarreira/ramcloud/rpc/client"
	"github.com/spf13/cobra"
)

var (
	backups *client.MultiBackupClient

	// SegmentCommands represents the segment command group
	SegmentCommands = &cobra.Command{
		Use:               "seg",
		Short:             "Perform segment operations against a backup server",
		PersistentPreRunE: setupBackupClient,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if backups != nil {
				return backups.Close()
			}
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the segment command
	util.SetupRPCClientFlags(SegmentCommands)

	// Add subcommands
	SegmentCommands.AddCommand(heartbeatCmd)
	SegmentCommands.AddCommand(writeCmd)
	SegmentCommands.AddCommand(commitCmd)
	SegmentCommands.AddCommand(freeCmd)
	SegmentCommands.AddCommand(listCmd)
	SegmentCommands.AddCommand(metadataCmd)
	SegmentCommands.AddCommand(retrieveCmd)
}

// setupBackupClient connects to the backup server and builds the client
func setupBackupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Create the backup client
	var err error
	backups, err = util.GetBackupClient()
	return err
}
