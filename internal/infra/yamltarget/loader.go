package yamltarget

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/taskproof/internal/domain"
	"github.com/aalvaropc/taskproof/internal/ports"
	"gopkg.in/yaml.v3"
)

type Loader struct {
	rootDir     string
	targetsDir  string
	secretsFile string
}

type Option func(*Loader)

func WithTargetsDir(dir string) Option {
	return func(l *Loader) { l.targetsDir = dir }
}

func WithSecretsFile(name string) Option {
	return func(l *Loader) { l.secretsFile = name }
}

func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		rootDir:     root,
		targetsDir:  "targets",
		secretsFile: "secrets.local.yaml",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.TargetLoader = (*Loader)(nil)

// LoadTarget accepts either a target name (e.g., "local") or a full path to a YAML file.
// The API token lives in the target file or in an optional secrets overlay
// next to it, never in suite files.
func (l *Loader) LoadTarget(nameOrPath string) (domain.Target, error) {
	var targetPath string
	var targetName string

	if strings.HasSuffix(nameOrPath, ".yaml") || strings.HasSuffix(nameOrPath, ".yml") || strings.Contains(nameOrPath, string(filepath.Separator)) {
		targetPath = filepath.Clean(nameOrPath)
		targetName = strings.TrimSuffix(filepath.Base(targetPath), filepath.Ext(targetPath))
	} else {
		targetName = nameOrPath
		targetPath = filepath.Join(l.rootDir, l.targetsDir, targetName+".yaml")
	}

	base, err := readTarget(targetPath)
	if err != nil {
		return domain.Target{}, err
	}

	// Secrets are optional; they override the base token and vars.
	secretsPath := filepath.Join(filepath.Dir(targetPath), l.secretsFile)
	secrets, secErr := readTargetOptional(secretsPath)
	if secErr != nil {
		return domain.Target{}, secErr
	}

	merged := domain.Target{
		Name:    targetName,
		BaseURL: base.BaseURL,
		Token:   base.Token,
		Vars:    domain.Vars{},
	}
	for k, v := range base.Vars {
		merged.Vars[k] = v
	}
	if secrets.BaseURL != "" {
		merged.BaseURL = secrets.BaseURL
	}
	if secrets.Token != "" {
		merged.Token = secrets.Token
	}
	for k, v := range secrets.Vars {
		merged.Vars[k] = v
	}

	if strings.TrimSpace(merged.BaseURL) == "" {
		return domain.Target{}, &domain.OpError{
			Op:   "yamltarget.validate",
			Kind: domain.KindInvalidConfig,
			Path: targetPath,
			Err:  fmt.Errorf("field base_url: target base_url is required"),
		}
	}

	return merged, nil
}

type yamlTarget struct {
	BaseURL string            `yaml:"base_url"`
	Token   string            `yaml:"token"`
	Vars    map[string]string `yaml:"vars"`
}

func readTarget(path string) (yamlTarget, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return yamlTarget{}, &domain.OpError{
			Op:   "yamltarget.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlTarget
	if err := yaml.Unmarshal(b, &y); err != nil {
		return yamlTarget{}, &domain.OpError{
			Op:   "yamltarget.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if y.Vars == nil {
		y.Vars = map[string]string{}
	}

	return y, nil
}

func readTargetOptional(path string) (yamlTarget, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return yamlTarget{Vars: map[string]string{}}, nil
		}
		return yamlTarget{}, &domain.OpError{
			Op:   "yamltarget.secrets",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	y, err := readTarget(path)
	if err != nil {
		return yamlTarget{}, fmt.Errorf("failed to load secrets: %w", err)
	}
	return y, nil
}
