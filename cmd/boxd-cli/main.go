package main

import (
	"boxd/cmd/boxd-cli/commands"
	"boxd/lib/util/serviceutil"
)

func main() {
	err := commands.ExecuteContext(serviceutil.SignalContext())
	if err != nil {
		serviceutil.Fatal("boxd-cli failed", err)
	}
}
