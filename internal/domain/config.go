package domain

// Config represents the minimal taskproof configuration loaded from taskproof.yaml.
type Config struct {
	Masking  MaskingConfig
	Defaults DefaultsConfig
	Paths    PathsConfig
}

type MaskingConfig struct {
	Enabled bool
}

type DefaultsConfig struct {
	Target string
}

type PathsConfig struct {
	SuitesDir  string
	TargetsDir string
	RunsDir    string
}

// DefaultConfig provides sane defaults if taskproof.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Masking: MaskingConfig{Enabled: true},
		Defaults: DefaultsConfig{
			Target: "local",
		},
		Paths: PathsConfig{
			SuitesDir:  "suites",
			TargetsDir: "targets",
			RunsDir:    "runs",
		},
	}
}
