package domain

import "strings"

// Channel is the remote catalog's sales channel.
type Channel string

const (
	ChannelOnline Channel = "online"
	ChannelLocal  Channel = "local"
)

func ParseChannel(s string) (Channel, bool) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelOnline:
		return ChannelOnline, true
	case ChannelLocal:
		return ChannelLocal, true
	default:
		return "", false
	}
}
