package base

import (
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/jcarreira/ramcloud/rpc/common"
)

// fakeServerConnector listens on a loopback TCP socket and records the
// configuration each accepted connection is upgraded with
type fakeServerConnector struct {
	listening  chan net.Listener
	upgraded   chan common.ServerConfig
	upgradeErr error
}

func (c *fakeServerConnector) GetName() string {
	return "fake"
}

func (c *fakeServerConnector) Listen(config common.ServerConfig) (net.Listener, error) {
	listener, err := net.Listen("tcp", config.Endpoint)
	if err != nil {
		return nil, err
	}
	c.listening <- listener
	return listener, nil
}

func (c *fakeServerConnector) UpgradeConnection(_ net.Conn, config common.ServerConfig) error {
	c.upgraded <- config
	return c.upgradeErr
}

// startServer runs the accept loop on an ephemeral port and returns
// the address it listens on
func startServer(t *testing.T, connector *fakeServerConnector) string {
	t.Helper()

	srv := NewBaseServerTransport(connector)
	srv.RegisterHandler(func(req []byte) []byte { return req })

	config := common.ServerConfig{
		Endpoint: "127.0.0.1:0",
		Socket: common.SocketConf{
			WriteBufferSize: 64 * 1024,
			ReadBufferSize:  32 * 1024,
		},
	}

	go func() {
		if err := srv.Listen(config); err != nil {
			t.Errorf("Listen failed: %v", err)
		}
	}()

	// Wait for the listener to come up
	select {
	case listener := <-connector.listening:
		return listener.Addr().String()
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start listening")
		return ""
	}
}

func TestAcceptedConnectionsAreUpgraded(t *testing.T) {
	connector := &fakeServerConnector{
		listening: make(chan net.Listener, 1),
		upgraded:  make(chan common.ServerConfig, 1),
	}
	addr := startServer(t, connector)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("failed to dial server: %v", err)
	}
	defer conn.Close()

	select {
	case config := <-connector.upgraded:
		if config.Socket.WriteBufferSize != 64*1024 || config.Socket.ReadBufferSize != 32*1024 {
			t.Errorf("upgrade received wrong socket configuration: %+v", config.Socket)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("accepted connection was never upgraded")
	}

	// The upgraded connection must serve requests
	if err := writeFrame(conn, []byte("ping")); err != nil {
		t.Fatalf("writeFrame failed: %v", err)
	}
	resp, err := readFrame(conn)
	if err != nil {
		t.Fatalf("readFrame failed: %v", err)
	}
	if string(resp) != "ping" {
		t.Errorf("expected echoed request, got %q", resp)
	}
}

func TestFailedUpgradeClosesConnection(t *testing.T) {
	connector := &fakeServerConnector{
		listening:  make(chan net.Listener, 1),
		upgraded:   make(chan common.ServerConfig, 1),
		upgradeErr: fmt.Errorf("upgrade rejected"),
	}
	addr := startServer(t, connector)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("failed to dial server: %v", err)
	}
	defer conn.Close()

	<-connector.upgraded

	// The server must hang up without answering
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := io.ReadAll(conn); err != nil {
		t.Fatalf("expected clean close, got %v", err)
	}
}
