package domain

// WebhookEvent is a verified Shopify webhook delivery.
type WebhookEvent struct {
	Topic    string `json:"topic" bson:"topic"`
	Shop     string `json:"shop" bson:"shop"`
	Payload  []byte `json:"payload" bson:"payload"`
	Verified bool   `json:"verified" bson:"verified"`
}
