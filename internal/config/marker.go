package config

import (
	"github.com/spf13/viper"

	"github.com/semgate/semgate/internal"
)

type marker struct {
	FileName  string `yaml:"file-name" json:"file-name" mapstructure:"file-name"` // the name of the next-version marker file written under the build directory
	Overwrite bool   `yaml:"overwrite" json:"overwrite" mapstructure:"overwrite"` // replace an existing marker file instead of keeping it
}

func (cfg marker) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("marker.file-name", internal.DefaultMarkerFileName)
	v.SetDefault("marker.overwrite", true)
}
