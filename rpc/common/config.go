package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Shared socket configuration
// --------------------------------------------------------------------------

// SocketConf holds buffer settings shared by all stream transports.
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds settings that only apply to TCP connections.
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig configures one connection to one backup server.
type ClientConfig struct {
	// Endpoint is the address of the backup server. One endpoint:
	// a backup host owns exactly one connection.
	Endpoint string

	// TimeoutSecond bounds each send and each receive. 0 disables
	// deadlines entirely.
	TimeoutSecond int

	Socket SocketConf
	TCP    TCPConf
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Backup Client")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Socket")
	addField("Write Buffer", fmt.Sprintf("%d bytes", c.Socket.WriteBufferSize))
	addField("Read Buffer", fmt.Sprintf("%d bytes", c.Socket.ReadBufferSize))
	addField("TCP NoDelay", strconv.FormatBool(c.TCP.TCPNoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.TCP.TCPKeepAliveSec))
	addField("TCP Linger", fmt.Sprintf("%d sec", c.TCP.TCPLingerSec))

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// Storage backend selectors for the backup server.
const (
	StorageMemory = "memory"
	StorageBadger = "badger"
)

// ServerConfig holds all configuration parameters for a backup server.
type ServerConfig struct {
	// Endpoint the server transport listens on
	Endpoint string

	// Timeout for reads and writes on accepted connections
	TimeoutSecond int64

	// Storage selects the segment store backend (memory, badger)
	Storage string

	// DataDir is the badger database directory (badger storage only)
	DataDir string

	// MetricsEndpoint exposes Prometheus metrics when non-empty
	MetricsEndpoint string

	// Logging configuration
	LogLevel string

	Socket SocketConf
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Backup Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Metrics Endpoint", c.MetricsEndpoint)

	addSection("Storage")
	addField("Backend", c.Storage)
	if c.Storage == StorageBadger {
		addField("Data Directory", c.DataDir)
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
