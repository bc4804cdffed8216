package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/changestream/cdc"
)

const (
	ProxyErrUnsupportedProtocol = 1000
	ProxyErrUnsupportedEncoding = 1001
	ProxyErrBadNamespace        = 1002
	ProxyErrInternal            = 1003

	supportedProtocol = "json"
	supportedEncoding = "json"
)

// SubscribeRequest is the body Centrifugo sends to its subscribe proxy
type SubscribeRequest struct {
	Protocol string `json:"protocol"`
	Encoding string `json:"encoding"`
	Channel  string `json:"channel"`
}

type ProxyError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ProxyErrorResponse struct {
	Error ProxyError `json:"error"`
}

type ProxyResult struct {
	Data cdc.Document `json:"data"`
}

type ProxyResultResponse struct {
	Result ProxyResult `json:"result"`
}

func (a *API) healthHandler(rw http.ResponseWriter, r *http.Request, _ httprouter.Params, llog *logrus.Entry) {
	healthy, err := a.Health.Roundtrip(r.Context(), struct{}{})
	if err != nil {
		llog.Errorf("unable to probe broker health: %s", err)
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	if !healthy {
		llog.Warning("broker is unhealthy")
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}

func (a *API) subscribeHandler(rw http.ResponseWriter, r *http.Request, _ httprouter.Params, llog *logrus.Entry) {
	req := &SubscribeRequest{}

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		llog.Debugf("unable to decode subscribe request: %s", err)
		WriteErrorJSON(http.StatusBadRequest, "unable to decode request body", rw)
		return
	}

	llog = llog.WithField("channel", req.Channel)

	if req.Protocol != supportedProtocol {
		writeProxyError(ProxyErrUnsupportedProtocol, "unsupported protocol", rw)
		return
	}

	if req.Encoding != supportedEncoding {
		writeProxyError(ProxyErrUnsupportedEncoding, "unsupported encoding", rw)
		return
	}

	prefix := a.Namespace.ChannelPrefix()

	if !strings.HasPrefix(req.Channel, prefix) {
		writeProxyError(ProxyErrBadNamespace, "bad channel namespace", rw)
		return
	}

	result, err := a.Lookup.Roundtrip(r.Context(), strings.TrimPrefix(req.Channel, prefix))
	if err != nil {
		llog.Errorf("unable to look up document: %s", err)
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	if result.Err != nil {
		llog.Errorf("document lookup failed: %s", result.Err)
		writeProxyError(ProxyErrInternal, "internal error", rw)
		return
	}

	WriteJSON(http.StatusOK, &ProxyResultResponse{Result: ProxyResult{Data: result.Document}}, rw)
}

func writeProxyError(code int, msg string, rw http.ResponseWriter) {
	WriteJSON(http.StatusOK, &ProxyErrorResponse{Error: ProxyError{Code: code, Message: msg}}, rw)
}
