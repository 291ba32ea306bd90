package supabasemcp

// Version is the server version reported in the initialize handshake and by
// the version command. Overridden at build time:
//
//	go build -ldflags "-X github.com/mamenendez92/mcp-supabase-native.Version=1.2.3"
var Version = "0.1.0-dev"
