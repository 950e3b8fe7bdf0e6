package serve

import (
	"fmt"
	"strings"

	cmdUtil "github.com/jcarreira/ramcloud/cmd/util"
	"github.com/jcarreira/ramcloud/rpc/common"
	"github.com/jcarreira/ramcloud/rpc/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start a backup server",
		Long:    `Start a backup server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is RCB_<flag> (e.g. RCB_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8421", cmdUtil.WrapString("The address on which the backup server will listen (e.g. localhost:8421, /tmp/backup.sock, ...)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 10, cmdUtil.WrapString("Timeout in seconds for reads and writes on accepted connections. 0 disables deadlines"))

	key = "storage"
	ServeCmd.PersistentFlags().String(key, "memory", cmdUtil.WrapString("Storage backend for replicated segments (memory, badger). The memory backend loses all segments on restart"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("(badger storage only) Directory used for the segment database"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address on which Prometheus metrics are exposed (e.g. localhost:9090). Empty disables the metrics endpoint"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "write-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("The size of the write buffer for accepted connections (in KB)"))

	key = "read-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("The size of the read buffer for accepted connections (in KB)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Storage = viper.GetString("storage")
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Socket = common.SocketConf{
		WriteBufferSize: viper.GetInt("write-buffer") * 1024,
		ReadBufferSize:  viper.GetInt("read-buffer") * 1024,
	}

	// validate the storage backend
	switch serveCmdConfig.Storage {
	case common.StorageMemory, common.StorageBadger:
	default:
		return fmt.Errorf("invalid storage %s (expected one of: memory, badger)", serveCmdConfig.Storage)
	}

	return nil
}

// run starts the backup server
func run(_ *cobra.Command, _ []string) error {

	// parse the storage backend
	var store server.ISegmentStore
	switch serveCmdConfig.Storage {
	case common.StorageMemory:
		store = server.NewMemorySegmentStore()
	case common.StorageBadger:
		var err error
		store, err = server.NewBadgerSegmentStore(serveCmdConfig.DataDir)
		if err != nil {
			return err
		}
	}
	defer store.Close()

	// parse the transport
	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	serv := server.NewBackupServer(
		*serveCmdConfig,
		t,
		store,
	)

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("rcb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
