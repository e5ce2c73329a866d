package events

// Connection lifecycle event types. The entity ID on server events is the
// connection generation: it increments every time a new handle is
// established, so consumers can tell reconnects apart.
const (
	EventServerConnected     = "server.connected"
	EventServerConnectFailed = "server.connect_failed"
	EventServerLost          = "server.lost"
)

// ServerConnected is emitted when a connection to the media server is
// established and the handle cached.
type ServerConnected struct {
	BaseEvent
	ServerName string `json:"server_name"`
	Version    string `json:"version"`
}

// ServerConnectFailed is emitted when establishing a connection fails.
type ServerConnectFailed struct {
	BaseEvent
	Reason string `json:"reason"`
}

// ServerLost is emitted when an established connection is invalidated
// after a transport failure.
type ServerLost struct {
	BaseEvent
	Reason string `json:"reason"`
}
