package main

import (
	"towerassist/cmd/towerassist/commands"
	"towerassist/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
