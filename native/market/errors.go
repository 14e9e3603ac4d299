package market

import "errors"

var (
	// ErrUnauthorized is returned when the caller lacks the artist or
	// administrator role required for token creation.
	ErrUnauthorized = errors.New("market engine: caller is not authorized to create tokens")
	// ErrInvalidRoyaltySplit is returned when the creator list and royalty
	// shares do not form a valid 10000 basis-point split.
	ErrInvalidRoyaltySplit = errors.New("market engine: invalid royalty split")
	// ErrTokenExists is returned when the requested token id is taken.
	ErrTokenExists = errors.New("market engine: token already exists")
	// ErrTokenNotFound is returned when no token matches the id.
	ErrTokenNotFound = errors.New("market engine: token not found")
	// ErrInvalidStatus is returned when a token is created with an
	// unsupported initial status.
	ErrInvalidStatus = errors.New("market engine: invalid initial status")
	// ErrInvalidAmount is returned for zero or negative monetary inputs.
	ErrInvalidAmount = errors.New("market engine: amount must be positive")
	// ErrNotOwner is returned when the caller does not hold the token's
	// full balance.
	ErrNotOwner = errors.New("market engine: caller is not the owner of the token")
	// ErrNotApproved is returned when a buy is attempted by an account
	// other than the approved buyer.
	ErrNotApproved = errors.New("market engine: caller is not approved to buy")
	// ErrNotForSale is returned when the token is not listed for direct sale.
	ErrNotForSale = errors.New("market engine: token is not for sale")
	// ErrIncorrectAmount is returned when the payment does not match the
	// current price exactly.
	ErrIncorrectAmount = errors.New("market engine: incorrect amount sent")
	// ErrInsufficientFunds is returned when the caller's account cannot
	// cover the payable amount.
	ErrInsufficientFunds = errors.New("market engine: insufficient balance")
	// ErrAuctionInProgress is returned when starting an auction on a token
	// that already has an active one.
	ErrAuctionInProgress = errors.New("market engine: token is already up for auction")
	// ErrNoActiveAuction is returned when bidding on or ending a token
	// without an active auction.
	ErrNoActiveAuction = errors.New("market engine: no active auction for token")
	// ErrBelowReserve is returned when a bidder's cumulative total does not
	// meet the auction reserve price.
	ErrBelowReserve = errors.New("market engine: bid below the reserve price")
	// ErrBidTooLow is returned when a bidder's cumulative total does not
	// exceed the current highest bid.
	ErrBidTooLow = errors.New("market engine: bid does not exceed the current highest")
	// ErrNotAuctionCreator is returned when endAuction is called by anyone
	// but the account that started the auction.
	ErrNotAuctionCreator = errors.New("market engine: caller did not start the auction")
	// ErrAuctionStillActive is returned when an operation requires the
	// auction to have concluded.
	ErrAuctionStillActive = errors.New("market engine: auction is still ongoing")
	// ErrNoFunds is returned when a withdrawal finds an empty pool.
	ErrNoFunds = errors.New("market engine: no funds in the pool")

	errNilState = errors.New("market engine: state not configured")
	errNilAuth  = errors.New("market engine: role authorizer not configured")
)
