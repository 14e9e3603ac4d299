package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashtune/Hashtune-Marketplace-Chain/crypto"
	"github.com/hashtune/Hashtune-Marketplace-Chain/native/market"
)

type marketCreateParams struct {
	Caller        string   `json:"caller"`
	TokenID       uint64   `json:"tokenId"`
	Creators      []string `json:"creators"`
	RoyaltyShares []uint16 `json:"royaltyShares"`
	Status        string   `json:"status"`
	Digest        string   `json:"digest"`
	HashFunction  uint8    `json:"hashFunction"`
	Size          uint64   `json:"size"`
	Price         string   `json:"price"`
	Quantity      uint64   `json:"quantity"`
}

type marketSetPriceParams struct {
	Caller  string `json:"caller"`
	TokenID uint64 `json:"tokenId"`
	Price   string `json:"price"`
}

type marketApproveBuyerParams struct {
	Caller  string `json:"caller"`
	TokenID uint64 `json:"tokenId"`
	Buyer   string `json:"buyer"`
}

type marketBuyParams struct {
	Caller  string `json:"caller"`
	TokenID uint64 `json:"tokenId"`
	Amount  string `json:"amount"`
}

type marketStartAuctionParams struct {
	Caller       string `json:"caller"`
	TokenID      uint64 `json:"tokenId"`
	ReservePrice string `json:"reservePrice"`
}

type marketPlaceBidParams struct {
	Caller  string `json:"caller"`
	TokenID uint64 `json:"tokenId"`
	Amount  string `json:"amount"`
}

type marketTokenParams struct {
	Caller  string `json:"caller"`
	TokenID uint64 `json:"tokenId"`
}

type marketSetURIParams struct {
	Caller string `json:"caller"`
	URI    string `json:"uri"`
}

type marketBidPoolParams struct {
	Account       string `json:"account"`
	TokenID       uint64 `json:"tokenId"`
	AuctionNumber uint64 `json:"auctionNumber"`
}

func parseStatus(status string) (market.TokenStatus, error) {
	switch strings.TrimSpace(status) {
	case "", "idle":
		return market.StatusIdle, nil
	case "forSale":
		return market.StatusForSale, nil
	case "inAuction":
		return market.StatusInAuction, nil
	default:
		return 0, fmt.Errorf("unknown status %q", status)
	}
}

func decodeParams(w http.ResponseWriter, req *RPCRequest, out interface{}) bool {
	if len(req.Params) != 1 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "exactly one parameter object expected", nil)
		return false
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return false
	}
	return true
}

func (s *Server) handleMarketCreate(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params marketCreateParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	creators := make([]crypto.Address, len(params.Creators))
	for i, raw := range params.Creators {
		creators[i], err = decodeBech32(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid creator address", err.Error())
			return
		}
	}
	status, err := parseStatus(params.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	digest, err := parseDigest(params.Digest)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	price, err := parsePrice(params.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	content := market.ContentPointer{Digest: digest, HashFunction: params.HashFunction, Size: params.Size}
	token, err := s.node.CreateToken(caller, params.TokenID, creators, params.RoyaltyShares, status, content, price, params.Quantity)
	if err != nil {
		writeEngineError(w, req.ID, "failed to create token", err)
		return
	}
	writeResult(w, req.ID, formatToken(token))
}

func (s *Server) handleMarketSetPrice(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params marketSetPriceParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	price, err := parseAmount(params.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.node.SetCurrentPrice(caller, price, params.TokenID); err != nil {
		writeEngineError(w, req.ID, "failed to set price", err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"tokenId": params.TokenID, "price": price.String()})
}

func (s *Server) handleMarketApproveBuyer(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params marketApproveBuyerParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	buyer, err := decodeBech32(params.Buyer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid buyer address", err.Error())
		return
	}
	if err := s.node.SetApprovalToBuy(caller, buyer, params.TokenID); err != nil {
		writeEngineError(w, req.ID, "failed to approve buyer", err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"tokenId": params.TokenID, "approvedBuyer": params.Buyer})
}

func (s *Server) handleMarketBuy(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params marketBuyParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.node.Buy(caller, params.TokenID, amount); err != nil {
		writeEngineError(w, req.ID, "failed to buy token", err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"tokenId": params.TokenID, "newOwner": params.Caller})
}

func (s *Server) handleMarketStartAuction(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params marketStartAuctionParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	reserve, err := parsePrice(params.ReservePrice)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	auction, err := s.node.StartAuction(caller, params.TokenID, reserve)
	if err != nil {
		writeEngineError(w, req.ID, "failed to start auction", err)
		return
	}
	writeResult(w, req.ID, formatAuction(auction))
}

func (s *Server) handleMarketPlaceBid(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params marketPlaceBidParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	auction, err := s.node.PlaceBid(caller, params.TokenID, amount)
	if err != nil {
		writeEngineError(w, req.ID, "failed to place bid", err)
		return
	}
	writeResult(w, req.ID, formatAuction(auction))
}

func (s *Server) handleMarketEndAuction(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params marketTokenParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	auction, err := s.node.EndAuction(caller, params.TokenID)
	if err != nil {
		writeEngineError(w, req.ID, "failed to end auction", err)
		return
	}
	writeResult(w, req.ID, formatAuction(auction))
}

func (s *Server) handleMarketWithdrawBid(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params marketTokenParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	amount, err := s.node.WithdrawBidMoney(caller, params.TokenID)
	if err != nil {
		writeEngineError(w, req.ID, "failed to withdraw bid money", err)
		return
	}
	writeResult(w, req.ID, withdrawResult{Receiver: params.Caller, Amount: bigString(amount)})
}

func (s *Server) handleMarketWithdrawRoyalties(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
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
	amount, err := s.node.WithdrawRoyalties(caller)
	if err != nil {
		writeEngineError(w, req.ID, "failed to withdraw royalties", err)
		return
	}
	writeResult(w, req.ID, withdrawResult{Receiver: params.Caller, Amount: bigString(amount)})
}

func (s *Server) handleMarketWithdrawPlatformFees(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
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
	amount, err := s.node.WithdrawPlatformFees(caller)
	if err != nil {
		writeEngineError(w, req.ID, "failed to withdraw platform fees", err)
		return
	}
	writeResult(w, req.ID, withdrawResult{Receiver: params.Caller, Amount: bigString(amount)})
}

func (s *Server) handleMarketSetURI(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params marketSetURIParams
	if !decodeParams(w, req, &params) {
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.SetURI(caller, params.URI); err != nil {
		writeEngineError(w, req.ID, "failed to set base URI", err)
		return
	}
	writeResult(w, req.ID, map[string]string{"uri": params.URI})
}

func (s *Server) handleMarketGetToken(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params struct {
		TokenID uint64 `json:"tokenId"`
	}
	if !decodeParams(w, req, &params) {
		return
	}
	token, err := s.node.Token(params.TokenID)
	if err != nil {
		writeEngineError(w, req.ID, "failed to load token", err)
		return
	}
	writeResult(w, req.ID, formatToken(token))
}

func (s *Server) handleMarketGetAuction(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params struct {
		TokenID uint64 `json:"tokenId"`
	}
	if !decodeParams(w, req, &params) {
		return
	}
	auction, err := s.node.Auction(params.TokenID)
	if err != nil {
		writeEngineError(w, req.ID, "failed to load auction", err)
		return
	}
	writeResult(w, req.ID, formatAuction(auction))
}

func (s *Server) handleMarketGetURI(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params struct {
		TokenID uint64 `json:"tokenId"`
	}
	if !decodeParams(w, req, &params) {
		return
	}
	uri, err := s.node.ShowURI(params.TokenID)
	if err != nil {
		writeEngineError(w, req.ID, "failed to load token URI", err)
		return
	}
	writeResult(w, req.ID, map[string]string{"uri": uri})
}

func (s *Server) handleMarketBalanceOf(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params struct {
		Account string `json:"account"`
		TokenID uint64 `json:"tokenId"`
	}
	if !decodeParams(w, req, &params) {
		return
	}
	account, err := decodeBech32(params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid account address", err.Error())
		return
	}
	balance, err := s.node.BalanceOf(account, params.TokenID)
	if err != nil {
		writeEngineError(w, req.ID, "failed to load token balance", err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"account": params.Account, "tokenId": params.TokenID, "balance": balance})
}

func (s *Server) handleMarketBidPoolBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params marketBidPoolParams
	if !decodeParams(w, req, &params) {
		return
	}
	account, err := decodeBech32(params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid account address", err.Error())
		return
	}
	balance, err := s.node.BidPoolBalance(account, params.TokenID, params.AuctionNumber)
	if err != nil {
		writeEngineError(w, req.ID, "failed to load bid pool balance", err)
		return
	}
	writeResult(w, req.ID, map[string]string{"account": params.Account, "balance": bigString(balance)})
}

func (s *Server) handleMarketRoyaltyBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
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
	balance, err := s.node.RoyaltyBalance(account)
	if err != nil {
		writeEngineError(w, req.ID, "failed to load royalty balance", err)
		return
	}
	writeResult(w, req.ID, map[string]string{"account": params.Account, "balance": bigString(balance)})
}

func (s *Server) handleMarketPlatformBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	balance, err := s.node.PlatformBalance()
	if err != nil {
		writeEngineError(w, req.ID, "failed to load platform balance", err)
		return
	}
	writeResult(w, req.ID, map[string]string{"balance": bigString(balance)})
}
