// main is the entry point for the destiny CLI.
package main

import (
	"github.com/huangsam/destiny/cmd"
	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/iocache"
	"github.com/huangsam/destiny/internal/logger"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	logger.Sync()
	iocache.CloseStores()

	if err != nil {
		contract.LogFatal("Cannot run destiny", err)
	}
}
