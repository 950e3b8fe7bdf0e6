package client

import (
	"fmt"

	"github.com/jcarreira/ramcloud/rpc/codec"
	"github.com/jcarreira/ramcloud/rpc/common"
	"github.com/jcarreira/ramcloud/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// invokeRPCRequest performs one synchronous backup RPC round trip: it
// encodes the request, sends it, blocks for the single response and
// decodes it.
//
// An explicit error response aborts the call with a *common.RemoteError
// carrying the backup's message, for any request type. A response whose
// received length disagrees with its declared length surfaces as
// common.ErrFrameDesync from the codec.
func invokeRPCRequest(req *common.Message, t transport.ITransport) (*common.Message, error) {
	// Serialize the request
	reqFrame, err := codec.Encode(req)
	if err != nil {
		return nil, err
	}

	// One message out ...
	if err := t.Send(reqFrame); err != nil {
		return nil, fmt.Errorf("failed to send %s request: %w", req.MsgType, err)
	}

	// ... one message back
	respFrame, err := t.Receive()
	if err != nil {
		return nil, fmt.Errorf("failed to receive %s response: %w", req.MsgType, err)
	}

	// Deserialize the response
	resp := &common.Message{}
	if err := codec.Decode(respFrame, resp); err != nil {
		return nil, err
	}

	// Check if the response is an error response
	if resp.MsgType == common.MsgTErrorResp {
		return nil, &common.RemoteError{Message: resp.Err}
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType.ResponseType() {
		return nil, fmt.Errorf("unexpected response type %s to %s request", resp.MsgType, req.MsgType)
	}

	return resp, nil
}
