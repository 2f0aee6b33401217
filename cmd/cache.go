package cmd

import (
	"github.com/spf13/cobra"

	"github.com/semgate/semgate/semgate/repository"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "operate on the baseline artifact cache",
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}

func newCache() (*repository.Cache, error) {
	repo, err := repository.NewMaven(repository.MavenConfig{
		URL:    appConfig.Repository.URL,
		CACert: appConfig.Repository.CACert,
	})
	if err != nil {
		return nil, err
	}

	return repository.NewCache(repo, appConfig.Repository.CacheDir), nil
}
