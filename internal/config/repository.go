package config

import (
	"path"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/semgate/semgate/internal"
)

type repository struct {
	URL      string `yaml:"url" json:"url" mapstructure:"url"`                   // the remote Maven repository to resolve released versions from
	CACert   string `yaml:"ca-cert" json:"ca-cert" mapstructure:"ca-cert"`       // a path to a PEM CA certificate chain for the repository host
	CacheDir string `yaml:"cache-dir" json:"cache-dir" mapstructure:"cache-dir"` // the directory downloaded baseline artifacts are cached in
}

func (cfg repository) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("repository.url", "https://repo1.maven.org/maven2")
	v.SetDefault("repository.ca-cert", "")
	v.SetDefault("repository.cache-dir", path.Join(xdg.CacheHome, internal.ApplicationName, "repository"))
}
