package artist

import (
	"errors"

	"github.com/hashtune/Hashtune-Marketplace-Chain/core/events"
	"github.com/hashtune/Hashtune-Marketplace-Chain/core/types"
)

var (
	// ErrUnauthorized is returned when a caller without the administrator
	// role invokes an admin-only operation.
	ErrUnauthorized = errors.New("artist engine: caller is not the administrator")

	errNilState = errors.New("artist engine: state not configured")
)

type engineState interface {
	AdminGet() ([20]byte, bool, error)
	AdminPut(addr [20]byte) error
	AdminDelete() error
	ArtistApprovedGet(addr [20]byte) (bool, error)
	ArtistApprovedPut(addr [20]byte) error
	ArtistApprovedDelete(addr [20]byte) error
}

type artistEvent struct {
	evt *types.Event
}

func (e artistEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e artistEvent) Event() *types.Event { return e.evt }

// Engine holds the administrator slot and the approved-artist set. It gates
// token creation for the market engine and exposes the role management
// operations to the RPC layer.
type Engine struct {
	state   engineState
	emitter events.Emitter
}

// NewEngine constructs an artist engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

// InitializeAdmin seeds the administrator slot if and only if it is empty.
// The node calls this once at genesis with the configured admin address.
func (e *Engine) InitializeAdmin(addr [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if _, ok, err := e.state.AdminGet(); err != nil {
		return err
	} else if ok {
		return nil
	}
	return e.state.AdminPut(addr)
}

// Admin returns the current administrator, if one is set.
func (e *Engine) Admin() ([20]byte, bool, error) {
	if e == nil || e.state == nil {
		return [20]byte{}, false, errNilState
	}
	return e.state.AdminGet()
}

// IsAdmin reports whether the supplied address holds the administrator role.
func (e *Engine) IsAdmin(addr [20]byte) (bool, error) {
	admin, ok, err := e.Admin()
	if err != nil {
		return false, err
	}
	return ok && admin == addr, nil
}

// IsApprovedArtist reports whether the account may create tokens.
func (e *Engine) IsApprovedArtist(addr [20]byte) (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	return e.state.ArtistApprovedGet(addr)
}

func (e *Engine) requireAdmin(caller [20]byte) error {
	ok, err := e.IsAdmin(caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// ApproveArtist grants token-creation rights to the account. Approving an
// already approved account is a no-op success.
func (e *Engine) ApproveArtist(caller [20]byte, account [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	approved, err := e.state.ArtistApprovedGet(account)
	if err != nil {
		return err
	}
	if approved {
		return nil
	}
	if err := e.state.ArtistApprovedPut(account); err != nil {
		return err
	}
	e.emit(events.ArtistApproved{Account: account})
	return nil
}

// ApproveArtistBatch grants rights to every listed account.
func (e *Engine) ApproveArtistBatch(caller [20]byte, accounts [][20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	for _, account := range accounts {
		approved, err := e.state.ArtistApprovedGet(account)
		if err != nil {
			return err
		}
		if approved {
			continue
		}
		if err := e.state.ArtistApprovedPut(account); err != nil {
			return err
		}
		e.emit(events.ArtistApproved{Account: account})
	}
	return nil
}

// RevokeArtistApproval removes token-creation rights from the account.
// Revoking an unapproved account is a no-op success.
func (e *Engine) RevokeArtistApproval(caller [20]byte, account [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	approved, err := e.state.ArtistApprovedGet(account)
	if err != nil {
		return err
	}
	if !approved {
		return nil
	}
	if err := e.state.ArtistApprovedDelete(account); err != nil {
		return err
	}
	e.emit(events.ArtistRevoked{Account: account})
	return nil
}

// RevokeArtistBatchApproval removes rights from every listed account.
func (e *Engine) RevokeArtistBatchApproval(caller [20]byte, accounts [][20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	for _, account := range accounts {
		approved, err := e.state.ArtistApprovedGet(account)
		if err != nil {
			return err
		}
		if !approved {
			continue
		}
		if err := e.state.ArtistApprovedDelete(account); err != nil {
			return err
		}
		e.emit(events.ArtistRevoked{Account: account})
	}
	return nil
}

// TransferOwnership moves the administrator slot to a new account.
func (e *Engine) TransferOwnership(caller [20]byte, newAdmin [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := e.state.AdminPut(newAdmin); err != nil {
		return err
	}
	e.emit(events.OwnershipTransferred{Previous: caller, NewAdmin: formatOptionalAddr(newAdmin)})
	return nil
}

// RenounceOwnership clears the administrator slot permanently.
func (e *Engine) RenounceOwnership(caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := e.state.AdminDelete(); err != nil {
		return err
	}
	e.emit(events.OwnershipTransferred{Previous: caller, NewAdmin: ""})
	return nil
}
