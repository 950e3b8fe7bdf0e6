package server

import (
	"fmt"
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/jcarreira/ramcloud/rpc/codec"
	"github.com/jcarreira/ramcloud/rpc/common"
	"github.com/jcarreira/ramcloud/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("backup")

// NewBackupServer creates a new backup server serving the segment
// store over the given transport.
//
// Usage:
//
//	s := server.NewBackupServer(
//		config,
//		tcp.NewTCPServerTransport(),
//		server.NewMemorySegmentStore(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewBackupServer(
	config common.ServerConfig,
	transport transport.IServerTransport,
	store ISegmentStore,
) *BackupServer {
	Logger.Infof("Created backup server")
	Logger.Infof(config.String())

	return &BackupServer{
		config:    config,
		transport: transport,
		store:     store,
	}
}

// BackupServer answers segment backup RPCs against a segment store.
type BackupServer struct {
	config    common.ServerConfig
	transport transport.IServerTransport
	store     ISegmentStore
}

// Handler returns the transport-level request handler: one complete
// request frame in, one complete response frame out. Any failure is
// answered with an error response carrying the failure's message; the
// connection stays usable.
func (s *BackupServer) Handler() transport.ServerHandleFunc {
	return func(req []byte) []byte {
		var msg common.Message
		var respMsg *common.Message

		// Decode the request
		if err := codec.Decode(req, &msg); err != nil {
			metrics.GetOrCreateCounter(`backup_rpc_errors_total{reason="decode"}`).Inc()
			respMsg = common.NewErrorResponse(fmt.Sprintf("failed to decode request: %s", err))
		} else {
			metrics.GetOrCreateCounter(fmt.Sprintf(`backup_rpc_requests_total{type=%q}`, msg.MsgType)).Inc()
			respMsg = s.dispatch(&msg)
			if respMsg.MsgType == common.MsgTErrorResp {
				metrics.GetOrCreateCounter(`backup_rpc_errors_total{reason="operation"}`).Inc()
			}
		}

		resp, err := codec.Encode(respMsg)
		if err != nil {
			// The response itself cannot exceed the frame bound with
			// bounded segments, but decode errors of tomorrow should
			// not kill the connection either.
			Logger.Errorf("Failed to encode %s response: %v", respMsg.MsgType, err)
			resp, _ = codec.Encode(common.NewErrorResponse(fmt.Sprintf("failed to encode response: %s", err)))
		}
		return resp
	}
}

// Serve initializes logging and metrics and runs the transport's
// accept loop. It blocks until the transport fails.
func (s *BackupServer) Serve() error {
	common.InitLoggers(s.config)

	if s.config.MetricsEndpoint != "" {
		go s.serveMetrics()
	}

	s.transport.RegisterHandler(s.Handler())
	return s.transport.Listen(s.config)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// dispatch routes one decoded request to the segment store
func (s *BackupServer) dispatch(msg *common.Message) *common.Message {
	switch msg.MsgType {
	case common.MsgTHeartbeatReq:
		return common.NewHeartbeatResponse()

	case common.MsgTWriteReq:
		if err := s.store.Write(msg.SegmentID, msg.Offset, msg.Data); err != nil {
			return common.NewErrorResponse(err.Error())
		}
		return common.NewWriteResponse()

	case common.MsgTCommitReq:
		if err := s.store.Commit(msg.SegmentID); err != nil {
			return common.NewErrorResponse(err.Error())
		}
		return common.NewCommitResponse()

	case common.MsgTFreeReq:
		if err := s.store.Free(msg.SegmentID); err != nil {
			return common.NewErrorResponse(err.Error())
		}
		return common.NewFreeResponse()

	case common.MsgTListReq:
		ids, err := s.store.List()
		if err != nil {
			return common.NewErrorResponse(err.Error())
		}
		return common.NewListResponse(ids)

	case common.MsgTMetadataReq:
		objects, err := s.store.Metadata(msg.SegmentID)
		if err != nil {
			return common.NewErrorResponse(err.Error())
		}
		return common.NewMetadataResponse(objects)

	case common.MsgTRetrieveReq:
		data, err := s.store.Retrieve(msg.SegmentID)
		if err != nil {
			return common.NewErrorResponse(err.Error())
		}
		return common.NewRetrieveResponse(data)

	default:
		return common.NewErrorResponse(fmt.Sprintf("unexpected request type %s", msg.MsgType))
	}
}

// serveMetrics exposes the Prometheus metrics endpoint
func (s *BackupServer) serveMetrics() {
	Logger.Infof("Serving metrics on %s", s.config.MetricsEndpoint)
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	if err := http.ListenAndServe(s.config.MetricsEndpoint, mux); err != nil {
		Logger.Errorf("Metrics endpoint failed: %v", err)
	}
}
