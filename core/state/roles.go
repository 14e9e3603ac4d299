package state

var baseURIKey = []byte("market:baseuri")

// BaseURIGet returns the contract-wide metadata base URI.
func (m *Manager) BaseURIGet() (string, bool, error) {
	var uri string
	ok, err := m.getRLP(hashKey(baseURIKey), &uri)
	if err != nil || !ok {
		return "", false, err
	}
	return uri, true, nil
}

// BaseURIPut stores the contract-wide metadata base URI.
func (m *Manager) BaseURIPut(uri string) error {
	return m.putRLP(hashKey(baseURIKey), uri)
}

// AdminGet returns the administrator address, if one is set.
func (m *Manager) AdminGet() ([20]byte, bool, error) {
	var admin [20]byte
	ok, err := m.getRLP(hashKey(adminKey), &admin)
	if err != nil || !ok {
		return [20]byte{}, false, err
	}
	return admin, true, nil
}

// AdminPut stores the administrator address.
func (m *Manager) AdminPut(addr [20]byte) error {
	return m.putRLP(hashKey(adminKey), addr)
}

// AdminDelete clears the administrator slot.
func (m *Manager) AdminDelete() error {
	return m.db.Delete(hashKey(adminKey))
}

// ArtistApprovedGet reports whether the address holds artist approval.
func (m *Manager) ArtistApprovedGet(addr [20]byte) (bool, error) {
	return m.db.Has(hashKey(artistPrefix, addr[:]))
}

// ArtistApprovedPut marks the address as an approved artist.
func (m *Manager) ArtistApprovedPut(addr [20]byte) error {
	return m.db.Put(hashKey(artistPrefix, addr[:]), []byte{1})
}

// ArtistApprovedDelete removes the address's artist approval.
func (m *Manager) ArtistApprovedDelete(addr [20]byte) error {
	return m.db.Delete(hashKey(artistPrefix, addr[:]))
}
