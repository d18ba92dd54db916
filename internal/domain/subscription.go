package domain

import "time"

// Subscription is a toggle record: its existence means the subscriber follows
// the channel
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToggleSubscriptionResult reports the state after a subscribe toggle
type ToggleSubscriptionResult struct {
	Subscribed bool `json:"isSubscribed"`
}

// ChannelStats holds a channel's subscription counters
type ChannelStats struct {
	SubscriberCount      int64 `json:"subscriberCount"`
	ChannelsSubscribedTo int64 `json:"channelsSubscribedToCount"`
}
