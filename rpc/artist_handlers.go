package rpc

import (
	"net/http"

	"github.com/hashtune/Hashtune-Marketplace-Chain/crypto"
)

type artistAccountParams struct {
	Caller  string `json:"caller"`
	Account string `json:"account"`
}

type artistBatchParams struct {
	Caller   string   `json:"caller"`
	Accounts []string `json:"accounts"`
}

func (s *Server) handleArtistApprove(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params artistAccountParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	account, err := decodeBech32(params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid account address", err.Error())
		return
	}
	if err := s.node.ApproveArtist(caller, account); err != nil {
		writeEngineError(w, req.ID, "failed to approve artist", err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"account": params.Account, "approved": true})
}

func (s *Server) handleArtistApproveBatch(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params artistBatchParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	accounts := make([]crypto.Address, len(params.Accounts))
	for i, raw := range params.Accounts {
		accounts[i], err = decodeBech32(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid account address", err.Error())
			return
		}
	}
	if err := s.node.ApproveArtistBatch(caller, accounts); err != nil {
		writeEngineError(w, req.ID, "failed to approve artists", err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"accounts": params.Accounts, "approved": true})
}

func (s *Server) handleArtistRevoke(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params artistAccountParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	account, err := decodeBech32(params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid account address", err.Error())
		return
	}
	if err := s.node.RevokeArtistApproval(caller, account); err != nil {
		writeEngineError(w, req.ID, "failed to revoke artist approval", err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"account": params.Account, "approved": false})
}

func (s *Server) handleArtistRevokeBatch(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params artistBatchParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	accounts := make([]crypto.Address, len(params.Accounts))
	for i, raw := range params.Accounts {
		accounts[i], err = decodeBech32(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid account address", err.Error())
			return
		}
	}
	if err := s.node.RevokeArtistBatchApproval(caller, accounts); err != nil {
		writeEngineError(w, req.ID, "failed to revoke artist approvals", err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"accounts": params.Accounts, "approved": false})
}

func (s *Server) handleArtistTransferOwnership(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params struct {
		Caller   string `json:"caller"`
		NewAdmin string `json:"newAdmin"`
	}
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	newAdmin, err := decodeBech32(params.NewAdmin)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid newAdmin address", err.Error())
		return
	}
	if err := s.node.TransferOwnership(caller, newAdmin); err != nil {
		writeEngineError(w, req.ID, "failed to transfer ownership", err)
		return
	}
	writeResult(w, req.ID, map[string]string{"admin": params.NewAdmin})
}

func (s *Server) handleArtistRenounceOwnership(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params struct {
		Caller string `json:"caller"`
	}
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.RenounceOwnership(caller); err != nil {
		writeEngineError(w, req.ID, "failed to renounce ownership", err)
		return
	}
	writeResult(w, req.ID, map[string]string{"admin": ""})
}

func (s *Server) handleArtistIsApproved(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params struct {
		Account string `json:"account"`
	}
	if !decodeParams(w, req, &params) {
		return
	}
	account, err := decodeBech32(params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid account address", err.Error())
		return
	}
	approved, err := s.node.IsApprovedArtist(account)
	if err != nil {
		writeEngineError(w, req.ID, "failed to check artist approval", err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"account": params.Account, "approved": approved})
}

func (s *Server) handleArtistAdmin(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	admin, ok, err := s.node.Admin()
	if err != nil {
		writeEngineError(w, req.ID, "failed to load admin", err)
		return
	}
	result := map[string]string{"admin": ""}
	if ok {
		result["admin"] = admin.String()
	}
	writeResult(w, req.ID, result)
}

func (s *Server) handleGetBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params struct {
		Address string `json:"address"`
	}
	if !decodeParams(w, req, &params) {
		return
	}
	addr, err := decodeBech32(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address", err.Error())
		return
	}
	account, err := s.node.GetAccount(addr)
	if err != nil {
		writeEngineError(w, req.ID, "failed to load account", err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{
		"address": params.Address,
		"balance": bigString(account.Balance),
		"nonce":   account.Nonce,
	})
}

func (s *Server) handleGetEvents(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	events := s.node.Events()
	type eventResult struct {
		Type       string            `json:"type"`
		Attributes map[string]string `json:"attributes"`
	}
	results := make([]eventResult, len(events))
	for i, evt := range events {
		results[i] = eventResult{Type: evt.Type, Attributes: evt.Attributes}
	}
	writeResult(w, req.ID, results)
}
