// Command inventory-server serves the inventory tools over MCP on stdio.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/mcpagent/mcp/mcpserver"
	"github.com/effective-security/mcpagent/tools/inventory"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/cmd", "inventory-server")

func main() {
	// stdout carries the protocol
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.INFO)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpserver.Serve(ctx, inventory.Tools(inventory.DefaultCatalog())...); err != nil {
		logger.KV(xlog.ERROR, "status", "serve_failed", "err", err.Error())
		stop()
		os.Exit(1)
	}
}
