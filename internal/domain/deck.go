package domain

import "time"

// Deck is the collection that owns the listed cards.
type Deck struct {
	ID         string
	OwnerID    string
	Name       string
	Cover      *string
	IsPrivate  bool
	CardsCount int
	Author     *Author
	Created    time.Time
	Updated    time.Time
}

// Author is the public profile of a deck owner.
type Author struct {
	ID   string
	Name string
}

// User is the identity of the signed-in viewer.
type User struct {
	ID     string
	Name   string
	Email  string
	Avatar *string
}

// IsOwnedBy reports whether u owns the deck. Unknown users own nothing.
func (d *Deck) IsOwnedBy(u *User) bool {
	if d == nil || u == nil || u.ID == "" {
		return false
	}
	return d.OwnerID == u.ID
}
