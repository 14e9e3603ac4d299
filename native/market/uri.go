package market

import "strings"

// SetBaseURI updates the contract-wide metadata base URI. Administrator
// only.
func (e *Engine) SetBaseURI(caller [20]byte, uri string) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.auth == nil {
		return errNilAuth
	}
	isAdmin, err := e.auth.IsAdmin(caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrUnauthorized
	}
	return e.state.BaseURIPut(strings.TrimSpace(uri))
}

// BaseURI returns the metadata base URI shared by every token.
func (e *Engine) BaseURI() (string, error) {
	if e == nil || e.state == nil {
		return "", errNilState
	}
	uri, _, err := e.state.BaseURIGet()
	return uri, err
}
