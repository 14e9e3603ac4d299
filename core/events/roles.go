package events

import "github.com/hashtune/Hashtune-Marketplace-Chain/core/types"

const (
	TypeArtistApproved       = "artist.approved"
	TypeArtistRevoked        = "artist.revoked"
	TypeOwnershipTransferred = "artist.ownership.transferred"
)

// ArtistApproved announces that an account gained token-creation rights.
type ArtistApproved struct {
	Account [20]byte
}

func (ArtistApproved) EventType() string { return TypeArtistApproved }

func (e ArtistApproved) Event() *types.Event {
	return &types.Event{
		Type: TypeArtistApproved,
		Attributes: map[string]string{
			"account": formatAddr(e.Account),
		},
	}
}

// ArtistRevoked announces that an account lost token-creation rights.
type ArtistRevoked struct {
	Account [20]byte
}

func (ArtistRevoked) EventType() string { return TypeArtistRevoked }

func (e ArtistRevoked) Event() *types.Event {
	return &types.Event{
		Type: TypeArtistRevoked,
		Attributes: map[string]string{
			"account": formatAddr(e.Account),
		},
	}
}

// OwnershipTransferred announces an administrator change. NewAdmin is the
// empty string when the admin slot was renounced.
type OwnershipTransferred struct {
	Previous [20]byte
	NewAdmin string
}

func (OwnershipTransferred) EventType() string { return TypeOwnershipTransferred }

func (e OwnershipTransferred) Event() *types.Event {
	return &types.Event{
		Type: TypeOwnershipTransferred,
		Attributes: map[string]string{
			"previous": formatAddr(e.Previous),
			"newAdmin": e.NewAdmin,
		},
	}
}
