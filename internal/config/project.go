package config

import (
	"github.com/spf13/viper"
)

type project struct {
	BuildDir       string `yaml:"build-dir" json:"build-dir" mapstructure:"build-dir"`                      // the build output directory the candidate artifact and marker file live in
	ParentBuildDir string `yaml:"parent-build-dir" json:"parent-build-dir" mapstructure:"parent-build-dir"` // the parent project build directory to merge marker results into (multi-module builds)
	ArtifactGlob   string `yaml:"artifact-glob" json:"artifact-glob" mapstructure:"artifact-glob"`          // the glob used to discover the candidate artifact under the build directory
}

func (cfg project) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("project.build-dir", "target")
	v.SetDefault("project.parent-build-dir", "")
	v.SetDefault("project.artifact-glob", "*.jar")
}
