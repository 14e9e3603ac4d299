package rpc

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/hashtune/Hashtune-Marketplace-Chain/core"
	"github.com/hashtune/Hashtune-Marketplace-Chain/observability"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
	requestsPerMin  = 120.0
	requestBurst    = 20
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32001
	codeRateLimited    = -32020
)

// Server exposes the node's market and artist operations over JSON-RPC.
// Mutating methods require a bearer credential: either the static token from
// HTN_RPC_TOKEN or an HMAC-signed JWT verified against HTN_RPC_JWT_SECRET.
type Server struct {
	node *core.Node

	authToken string
	jwtSecret []byte

	mu       sync.Mutex
	visitors map[string]*rate.Limiter

	httpSrv *http.Server
}

func NewServer(node *core.Node) *Server {
	return &Server{
		node:      node,
		authToken: strings.TrimSpace(os.Getenv("HTN_RPC_TOKEN")),
		jwtSecret: []byte(strings.TrimSpace(os.Getenv("HTN_RPC_JWT_SECRET"))),
		visitors:  make(map[string]*rate.Limiter),
	}
}

// Router assembles the HTTP surface: the JSON-RPC endpoint at /, a liveness
// probe at /healthz and the Prometheus scrape endpoint at /metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/", s.handle)
	return r
}

func (s *Server) Start(addr string) error {
	slog.Info("starting JSON-RPC server", "addr", addr)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	requestID := uuid.NewString()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-Id", requestID)

	if !s.allowSource(clientID(r)) {
		writeError(w, http.StatusTooManyRequests, nil, codeRateLimited, "too many requests", nil)
		return
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	start := time.Now()
	if s.dispatch(w, r, req) {
		observability.Metrics().Observe("rpc", req.Method, start, nil)
		return
	}
	writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method), nil)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, req *RPCRequest) bool {
	switch req.Method {
	case "market_create":
		s.authed(w, r, req, s.handleMarketCreate)
	case "market_setPrice":
		s.authed(w, r, req, s.handleMarketSetPrice)
	case "market_approveBuyer":
		s.authed(w, r, req, s.handleMarketApproveBuyer)
	case "market_buy":
		s.authed(w, r, req, s.handleMarketBuy)
	case "market_startAuction":
		s.authed(w, r, req, s.handleMarketStartAuction)
	case "market_placeBid":
		s.authed(w, r, req, s.handleMarketPlaceBid)
	case "market_endAuction":
		s.authed(w, r, req, s.handleMarketEndAuction)
	case "market_withdrawBid":
		s.authed(w, r, req, s.handleMarketWithdrawBid)
	case "market_withdrawRoyalties":
		s.authed(w, r, req, s.handleMarketWithdrawRoyalties)
	case "market_withdrawPlatformFees":
		s.authed(w, r, req, s.handleMarketWithdrawPlatformFees)
	case "market_setURI":
		s.authed(w, r, req, s.handleMarketSetURI)
	case "market_getToken":
		s.handleMarketGetToken(w, r, req)
	case "market_getAuction":
		s.handleMarketGetAuction(w, r, req)
	case "market_getURI":
		s.handleMarketGetURI(w, r, req)
	case "market_balanceOf":
		s.handleMarketBalanceOf(w, r, req)
	case "market_bidPoolBalance":
		s.handleMarketBidPoolBalance(w, r, req)
	case "market_royaltyBalance":
		s.handleMarketRoyaltyBalance(w, r, req)
	case "market_platformBalance":
		s.handleMarketPlatformBalance(w, r, req)
	case "artist_approve":
		s.authed(w, r, req, s.handleArtistApprove)
	case "artist_approveBatch":
		s.authed(w, r, req, s.handleArtistApproveBatch)
	case "artist_revoke":
		s.authed(w, r, req, s.handleArtistRevoke)
	case "artist_revokeBatch":
		s.authed(w, r, req, s.handleArtistRevokeBatch)
	case "artist_transferOwnership":
		s.authed(w, r, req, s.handleArtistTransferOwnership)
	case "artist_renounceOwnership":
		s.authed(w, r, req, s.handleArtistRenounceOwnership)
	case "artist_isApproved":
		s.handleArtistIsApproved(w, r, req)
	case "artist_admin":
		s.handleArtistAdmin(w, r, req)
	case "htn_getBalance":
		s.handleGetBalance(w, r, req)
	case "htn_getEvents":
		s.handleGetEvents(w, r, req)
	default:
		return false
	}
	return true
}

type rpcHandler func(w http.ResponseWriter, r *http.Request, req *RPCRequest)

func (s *Server) authed(w http.ResponseWriter, r *http.Request, req *RPCRequest, next rpcHandler) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	next(w, r, req)
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" && len(s.jwtSecret) == 0 {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication not configured"}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing Authorization header"}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if s.authToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) == 1 {
		return nil
	}
	if len(s.jwtSecret) > 0 {
		if err := s.verifyJWT(token); err == nil {
			return nil
		}
	}
	return &RPCError{Code: codeUnauthorized, Message: "invalid RPC credentials"}
}

func (s *Server) verifyJWT(token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid token")
	}
	return nil
}

func (s *Server) allowSource(source string) bool {
	s.mu.Lock()
	limiter, ok := s.visitors[source]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(requestsPerMin/60.0), requestBurst)
		s.visitors[source] = limiter
	}
	s.mu.Unlock()
	return limiter.Allow()
}

func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
