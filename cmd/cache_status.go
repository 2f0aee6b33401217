package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/log"
)

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "display the cache location and its contents",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runCacheStatusCmd(cmd, args))
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
}

func runCacheStatusCmd(_ *cobra.Command, _ []string) int {
	cache, err := newCache()
	if err != nil {
		log.Errorf("could not open cache: %+v", err)
		return 1
	}

	status := cache.Status()

	fmt.Println("Location: ", status.Location)
	fmt.Println("Artifacts: ", status.Entries)
	fmt.Println("Size: ", humanize.Bytes(uint64(status.Size)))
	if status.Err != nil {
		fmt.Printf("Status: INVALID [%+v]\n", status.Err)
		return 1
	}

	fmt.Println("Status: Valid")
	return 0
}
