package config

import (
	"github.com/spf13/viper"
)

type check struct {
	FailOnIncorrectVersion bool `yaml:"fail-on-incorrect-version" json:"fail-on-incorrect-version" mapstructure:"fail-on-incorrect-version"` // fail the build when the declared version does not satisfy the required change
	AllowHigherVersions    bool `yaml:"allow-higher-versions" json:"allow-higher-versions" mapstructure:"allow-higher-versions"`             // accept declared versions that overshoot the required change
	HaltOnFailure          bool `yaml:"halt-on-failure" json:"halt-on-failure" mapstructure:"halt-on-failure"`                               // treat missing preconditions (no candidate artifact) as hard failures
	IgnoreSnapshots        bool `yaml:"ignore-snapshots" json:"ignore-snapshots" mapstructure:"ignore-snapshots"`                            // exclude snapshot releases when selecting the baseline version
}

func (cfg check) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("check.fail-on-incorrect-version", false)
	v.SetDefault("check.allow-higher-versions", true)
	v.SetDefault("check.halt-on-failure", true)
	v.SetDefault("check.ignore-snapshots", true)
}
