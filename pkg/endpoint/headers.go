package endpoint

// HTTP headers exchanged with the Rosette API.
const (
	// UserKeyHeader carries the API key issued by Rosette. Omitted when the
	// client is configured without a key (on-premise deployments).
	UserKeyHeader = "X-RosetteAPI-Key"
	// BindingHeader names the client binding, always "go".
	BindingHeader = "X-RosetteAPI-Binding"
	// BindingVersionHeader carries BindingVersion.
	BindingVersionHeader = "X-RosetteAPI-Binding-Version"
	// UserAgentHeader identifies the client library and its version.
	UserAgentHeader = "User-Agent"
	// CustomHeaderPrefix must begin every caller-supplied header name.
	CustomHeaderPrefix = "X-RosetteAPI-"

	AcceptHeader         = "Accept"
	AcceptEncodingHeader = "Accept-Encoding"
	ContentTypeHeader    = "Content-Type"
)

const (
	// BindingName is sent in BindingHeader.
	BindingName = "go"
	// BindingVersion is the protocol version this client speaks. The server
	// is asked whether it supports it before the first document call.
	BindingVersion = "0.8"
	// UserAgent is sent in UserAgentHeader.
	UserAgent = "RosetteAPIGo/" + BindingVersion

	jsonMediaType = "application/json"
)
