package domain

import "time"

// Claims is the verified content of a signed token.
type Claims struct {
	Subject   string
	Email     string
	Issuer    string
	Audience  []string
	Groups    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

// HasGroup reports whether the claims carry group g.
func (c *Claims) HasGroup(g string) bool {
	if c == nil {
		return false
	}
	for _, have := range c.Groups {
		if have == g {
			return true
		}
	}
	return false
}

// HasAnyGroup reports whether the claims intersect the required set.
// An empty required set never matches.
func (c *Claims) HasAnyGroup(required ...string) bool {
	for _, g := range required {
		if c.HasGroup(g) {
			return true
		}
	}
	return false
}
