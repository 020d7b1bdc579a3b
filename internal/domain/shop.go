package domain

import "time"

// Shop represents a connected Shopify store. AccessToken is stored encrypted
// at rest; only the token store and the application layer ever see it in
// clear text.
type Shop struct {
	Domain      string    `json:"domain" bson:"domain"`
	AccessToken string    `json:"-" bson:"access_token"`
	Scopes      []string  `json:"scopes" bson:"scopes"`
	InstalledAt time.Time `json:"installed_at" bson:"installed_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Token is a token-store entry for a shop. IssuedAt records when the token
// was obtained, not an upstream expiry: Shopify offline tokens live until
// revoked.
type Token struct {
	Shop        string    `json:"shop"`
	AccessToken string    `json:"access_token"`
	IssuedAt    time.Time `json:"issued_at"`
}
