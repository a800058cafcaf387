package api

import "github.com/papercomputeco/vertexprobe/pkg/llm"

// Config is the API server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string

	// Project, Region and Model address the hosted model used by /api/chat.
	Project string
	Region  string
	Model   string

	// Chat holds the sampling options sent with every chat request.
	Chat llm.Options

	// MoodCollection names the collection mood entries are written to.
	MoodCollection string
}
