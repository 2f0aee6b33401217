package config

import (
	"github.com/spf13/viper"
)

type analysis struct {
	Command         string   `yaml:"command" json:"command" mapstructure:"command"`                            // the binary compatibility analyzer command to shell out to
	Args            []string `yaml:"args" json:"args" mapstructure:"args"`                                     // extra arguments inserted before the generated analyzer flags
	ExcludePackages []string `yaml:"exclude-packages" json:"exclude-packages" mapstructure:"exclude-packages"` // package patterns to exclude from the comparison
	ExcludeFiles    []string `yaml:"exclude-files" json:"exclude-files" mapstructure:"exclude-files"`          // file patterns to exclude from the comparison
	Classpath       []string `yaml:"classpath" json:"classpath" mapstructure:"classpath"`                      // additional classpath entries handed to the analyzer
}

func (cfg analysis) loadDefaultValues(v *viper.Viper) {
	v.SetDefault("analysis.command", "japicmp")
	v.SetDefault("analysis.args", []string{})
	v.SetDefault("analysis.exclude-packages", []string{})
	v.SetDefault("analysis.exclude-files", []string{})
	v.SetDefault("analysis.classpath", []string{})
}
