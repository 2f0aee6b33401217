package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/log"
)

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "delete all cached baseline artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCacheClearCmd(cmd, args))
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClearCmd(_ *cobra.Command, _ []string) int {
	cache, err := newCache()
	if err != nil {
		log.Errorf("could not open cache: %+v", err)
		return 1
	}

	if err := cache.Purge(); err != nil {
		log.Errorf("unable to clear cache: %+v", err)
		return 1
	}

	fmt.Println("Cache cleared")
	return 0
}
