package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/log"
)

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "list the cached baseline artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCacheListCmd(cmd, args))
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
}

func runCacheListCmd(_ *cobra.Command, _ []string) int {
	cache, err := newCache()
	if err != nil {
		log.Errorf("could not open cache: %+v", err)
		return 1
	}

	entries, err := cache.Entries()
	if err != nil {
		log.Errorf("unable to list cache entries: %+v", err)
		return 1
	}

	if len(entries) == 0 {
		fmt.Println("No cached artifacts")
		return 0
	}

	for _, entry := range entries {
		fmt.Printf("%s (%s, fetched %s)\n", entry.Coordinate, humanize.Bytes(uint64(entry.Size)), humanize.Time(entry.Fetched))
	}
	return 0
}
