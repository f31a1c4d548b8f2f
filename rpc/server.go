package rpc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/net/netutil"

	"github.com/thetatoken/utxoledger/common"
	"github.com/thetatoken/utxoledger/common/util"
	"github.com/thetatoken/utxoledger/ledger"
)

var logger *log.Entry

// LedgerService answers read-only queries against a ledger.
type LedgerService struct {
	ledger *ledger.Ledger

	// Life cycle
	wg     *sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// LedgerRPCServer serves LedgerService over HTTP.
type LedgerRPCServer struct {
	*LedgerService

	server   *http.Server
	router   *mux.Router
	listener net.Listener
}

// NewLedgerRPCServer creates a new instance of LedgerRPCServer.
func NewLedgerRPCServer(l *ledger.Ledger) *LedgerRPCServer {
	t := &LedgerRPCServer{
		LedgerService: &LedgerService{
			ledger: l,
			wg:     &sync.WaitGroup{},
		},
	}

	timeout := viper.GetDuration(common.CfgRPCTimeoutSecs) * time.Second

	t.router = mux.NewRouter()
	t.router.Handle("/", &defaultHTTPHandler{})
	api := t.router.Methods(http.MethodGet, http.MethodOptions).Subrouter()
	api.HandleFunc("/status", t.handleStatus)
	api.HandleFunc("/balance/{address}", t.handleBalance)
	api.HandleFunc("/blocks", t.handleBlocks)
	api.HandleFunc("/blocks/{hash}", t.handleBlock)

	t.server = &http.Server{
		Handler: corsMiddleware(http.TimeoutHandler(t.router, timeout, `{"error":"timeout"}`)),
	}

	logger = util.GetLoggerForModule("rpc")

	return t
}

// Handler returns the HTTP handler of the server.
func (t *LedgerRPCServer) Handler() http.Handler {
	return t.server.Handler
}

// Start binds the listener and serves until ctx is cancelled or Stop is
// called.
func (t *LedgerRPCServer) Start(ctx context.Context) error {
	address := viper.GetString(common.CfgRPCAddress)
	port := viper.GetString(common.CfgRPCPort)
	l, err := net.Listen("tcp", net.JoinHostPort(address, port))
	if err != nil {
		logger.WithFields(log.Fields{"error": err}).Error("Failed to create listener")
		return err
	}
	if max := viper.GetInt(common.CfgRPCMaxConnections); max > 0 {
		l = netutil.LimitListener(l, max)
	}
	t.listener = l
	logger.WithFields(log.Fields{"address": l.Addr().String()}).Info("RPC server started")

	c, cancel := context.WithCancel(ctx)
	t.ctx = c
	t.cancel = cancel

	t.wg.Add(1)
	go t.mainLoop()
	return nil
}

// Addr returns the address the server listens on, or nil before Start.
func (t *LedgerRPCServer) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *LedgerRPCServer) mainLoop() {
	defer t.wg.Done()

	go t.serve()

	<-t.ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	t.server.Shutdown(shutdownCtx)
}

func (t *LedgerRPCServer) serve() {
	if err := t.server.Serve(t.listener); err != nil && err != http.ErrServerClosed {
		logger.WithFields(log.Fields{"error": err}).Error("RPC server stopped")
	}
}

func corsMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// Stop notifies all goroutines to stop without blocking.
func (t *LedgerRPCServer) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
}

// Wait blocks until all goroutines stop.
func (t *LedgerRPCServer) Wait() {
	t.wg.Wait()
}

type defaultHTTPHandler struct {
}

func (dh *defaultHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "UTXO ledger is up and running!")
}
