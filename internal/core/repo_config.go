package core

// RepoConfig represents the structure of the .codewise.yml file.
type RepoConfig struct {
	// Custom instructions appended to the review prompt.
	CustomInstructions []string `yaml:"custom_instructions"`

	// Directory names skipped during discovery.
	// Example: ["vendor", "node_modules", "dist"]
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		CustomInstructions: []string{},
		ExcludeDirs:        []string{},
	}
}
