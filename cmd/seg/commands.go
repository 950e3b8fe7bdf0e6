package seg

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	heartbeatCmd = &cobra.Command{
		Use:   "heartbeat",
		Short: "Checks that the backup server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := backups.Heartbeat(); err != nil {
				return err
			} else {
				fmt.Println("backup alive")
			}
			return nil
		},
	}
	writeCmd = &cobra.Command{
		Use:   "write [segmentID] [offset]",
		Short: "Writes data into an open segment at the given offset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			segmentID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("segmentID must be a number: %w", err)
			}
			offset, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("offset must be a number: %w", err)
			}

			// data comes from --file or --data
			var data []byte
			if file, _ := cmd.Flags().GetString("file"); file != "" {
				data, err = os.ReadFile(file)
				if err != nil {
					return err
				}
			} else if s, _ := cmd.Flags().GetString("data"); s != "" {
				data = []byte(s)
			} else {
				return fmt.Errorf("either --file or --data must be set")
			}

			if err := backups.WriteSegment(segmentID, uint32(offset), data); err != nil {
				return err
			} else {
				fmt.Printf("wrote %d bytes to segment %d at offset %d\n", len(data), segmentID, offset)
			}
			return nil
		},
	}
	commitCmd = &cobra.Command{
		Use:   "commit [segmentID]",
		Short: "Closes a segment and makes it durable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segmentID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("segmentID must be a number: %w", err)
			}
			if err := backups.CommitSegment(segmentID); err != nil {
				return err
			} else {
				fmt.Printf("segment %d committed\n", segmentID)
			}
			return nil
		},
	}
	freeCmd = &cobra.Command{
		Use:   "free [segmentID]",
		Short: "Discards a committed segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segmentID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("segmentID must be a number: %w", err)
			}
			if err := backups.FreeSegment(segmentID); err != nil {
				return err
			} else {
				fmt.Printf("segment %d freed\n", segmentID)
			}
			return nil
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists the IDs of all segments the backup holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxCount, _ := cmd.Flags().GetUint32("max")
			ids, err := backups.GetSegmentList(maxCount)
			if err != nil {
				return err
			}
			fmt.Printf("%d segment(s)\n", len(ids))
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
	metadataCmd = &cobra.Command{
		Use:   "metadata [segmentID]",
		Short: "Lists the object metadata of a committed segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segmentID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("segmentID must be a number: %w", err)
			}
			maxCount, _ := cmd.Flags().GetUint32("max")
			objects, err := backups.GetSegmentMetadata(segmentID, maxCount)
			if err != nil {
				return err
			}
			fmt.Printf("%d object(s) in segment %d\n", len(objects), segmentID)
			for _, obj := range objects {
				fmt.Printf("objectID=%d version=%d\n", obj.ObjectID, obj.Version)
			}
			return nil
		},
	}
	retrieveCmd = &cobra.Command{
		Use:   "retrieve [segmentID]",
		Short: "Fetches the full contents of a committed segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segmentID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("segmentID must be a number: %w", err)
			}
			data, err := backups.RetrieveSegment(segmentID)
			if err != nil {
				return err
			}
			if out, _ := cmd.Flags().GetString("out"); out != "" {
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return err
				}
				fmt.Printf("wrote %d bytes to %s\n", len(data), out)
			} else {
				if _, err := os.Stdout.Write(data); err != nil {
					return err
				}
			}
			return nil
		},
	}
)

func init() {
	writeCmd.Flags().String("file", "", "Read the segment payload from this file")
	writeCmd.Flags().String("data", "", "Use this string as the segment payload")
	listCmd.Flags().Uint32("max", 1024, "Maximum number of segment IDs the client accepts")
	metadataCmd.Flags().Uint32("max", 4096, "Maximum number of metadata entries the client accepts")
	retrieveCmd.Flags().String("out", "", "Write the segment contents to this file instead of stdout")
}
