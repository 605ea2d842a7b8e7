package model

// Command describes one external process invocation inside a streaming
// pipeline. It lives for a single HTTP request.
type Command struct {
	Path string
	Args []string
}
