package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/changestream/cdc"
	"github.com/batchcorp/changestream/roundtrip"
)

const RequestIDHeader = "X-Request-Id"

var (
	ErrMissingListenAddress = errors.New("ListenAddress cannot be empty")
	ErrMissingNamespace     = errors.New("Namespace cannot be empty")
	ErrMissingHealth        = errors.New("Health cannot be nil")
	ErrMissingLookup        = errors.New("Lookup cannot be nil")
)

type Config struct {
	ListenAddress string
	Version       string

	// Namespace is the channel prefix subscribers must use
	Namespace cdc.Namespace

	Health *roundtrip.Sender[struct{}, bool]
	Lookup *roundtrip.Sender[string, *cdc.LookupResult]
}

type API struct {
	*Config

	log *logrus.Entry
}

type ResponseJSON struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// handle is an httprouter.Handle that also receives a per-request logger
type handle func(rw http.ResponseWriter, r *http.Request, p httprouter.Params, llog *logrus.Entry)

func New(cfg *Config) (*API, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate api config")
	}

	return &API{
		Config: cfg,
		log:    logrus.WithField("pkg", "api"),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.ListenAddress == "" {
		return ErrMissingListenAddress
	}

	if cfg.Namespace.DB == "" || cfg.Namespace.Coll == "" {
		return ErrMissingNamespace
	}

	if cfg.Health == nil {
		return ErrMissingHealth
	}

	if cfg.Lookup == nil {
		return ErrMissingLookup
	}

	return nil
}

// Server returns an unstarted HTTP server for the API
func (a *API) Server() *http.Server {
	return &http.Server{
		Addr:    a.ListenAddress,
		Handler: a.Router(),
	}
}

func (a *API) Router() http.Handler {
	router := httprouter.New()

	router.GET("/health", a.withRequestID(a.healthHandler))
	router.POST("/centrifugo/subscribe", a.withRequestID(a.subscribeHandler))
	router.GET("/version", a.withRequestID(a.versionHandler))

	router.Handler("GET", "/metrics", promhttp.Handler())

	return router
}

func (a *API) withRequestID(h handle) httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id := uuid.NewString()

		rw.Header().Set(RequestIDHeader, id)

		h(rw, r, p, a.log.WithFields(logrus.Fields{
			"request_id": id,
			"path":       r.URL.Path,
		}))
	}
}

func (a *API) versionHandler(rw http.ResponseWriter, _ *http.Request, _ httprouter.Params, _ *logrus.Entry) {
	WriteJSON(http.StatusOK, &ResponseJSON{Status: http.StatusOK, Message: "changestream " + a.Version}, rw)
}

func WriteJSON(statusCode int, data interface{}, w http.ResponseWriter) {
	w.Header().Add("Content-type", "application/json")

	jsonData, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(500)
		logrus.Errorf("Unable to marshal data in WriteJSON: %s", err)
		return
	}

	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		logrus.Errorf("Unable to write response data: %s", err)
		return
	}
}

func WriteErrorJSON(statusCode int, msg string, w http.ResponseWriter) {
	WriteJSON(statusCode, map[string]string{"error": msg}, w)
}
