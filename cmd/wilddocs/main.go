// Package main provides the entry point for the wilddocs CLI.
//
// Usage:
//
//	wilddocs ask "How do I install gpt?"
//	wilddocs projects list
//	wilddocs projects add https://github.com/openai/gpt --wait
//	wilddocs normalize https://github.com/openai/gpt
//	wilddocs config set-key sk-...
//	wilddocs health
//	wilddocs status
//
// Global flags:
//
//	--api-url     Backend URL (default: http://localhost:8000)
//	--timeout     Request timeout duration (default: 30s)
//	--api-key     API key, overriding the stored one
//	--output, -o  json (default) or text
//
// JSON output is a single envelope per invocation for consumption by scripts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"wilddocs/internal/client/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
