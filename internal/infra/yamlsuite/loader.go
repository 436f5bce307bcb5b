package yamlsuite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aalvaropc/taskproof/internal/domain"
	"github.com/aalvaropc/taskproof/internal/ports"
	"gopkg.in/yaml.v3"
)

type Loader struct {
	suitesDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{suitesDir: "suites"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithSuitesDir(dir string) Option {
	return func(l *Loader) { l.suitesDir = dir }
}

var _ ports.SuiteLoader = (*Loader)(nil)

func (l *Loader) LoadSuite(path string) (domain.Suite, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Suite{}, &domain.OpError{
			Op:   "yamlsuite.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var ys yamlSuite
	if err := yaml.Unmarshal(b, &ys); err != nil {
		return domain.Suite{}, &domain.OpError{
			Op:   "yamlsuite.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	suite, err := mapAndValidate(path, ys)
	if err != nil {
		return domain.Suite{}, err
	}

	return suite, nil
}

func (l *Loader) ListSuites(root string) ([]domain.SuiteRef, error) {
	dir := filepath.Join(root, l.suitesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlsuite.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.SuiteRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		p := filepath.Join(dir, name)
		n, _ := readSuiteName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(name, filepath.Ext(name))
		}

		refs = append(refs, domain.SuiteRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func readSuiteName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Name, nil
}

type yamlSuite struct {
	Name  string            `yaml:"name"`
	Vars  map[string]string `yaml:"vars"`
	Cases []yamlCase        `yaml:"cases"`
}

type yamlCase struct {
	Name    string            `yaml:"name"`
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Query   map[string]string `yaml:"query"`
	Headers map[string]string `yaml:"headers"`
	Auth    yamlAuth          `yaml:"auth"`

	JSON        map[string]any `yaml:"json"`
	Raw         string         `yaml:"raw"`
	ContentType string         `yaml:"content_type"`

	Expect  yamlExpect        `yaml:"expect"`
	Extract map[string]string `yaml:"extract"`
}

type yamlAuth struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

type yamlExpect struct {
	StatusIn    []int  `yaml:"status_in"`
	ContentType string `yaml:"content_type"`
	MaxMS       *int   `yaml:"max_ms"`

	JSONPath map[string]yamlJSONPathCheck `yaml:"jsonpath"`
}

type yamlJSONPathCheck struct {
	Exists   bool    `yaml:"exists"`
	Type     string  `yaml:"type"`
	Eq       *string `yaml:"eq"`
	Contains *string `yaml:"contains"`
	Matches  *string `yaml:"matches"`
}

func mapAndValidate(path string, ys yamlSuite) (domain.Suite, error) {
	if strings.TrimSpace(ys.Name) == "" {
		return domain.Suite{}, invalidField(path, "name", "suite name is required")
	}

	suite := domain.Suite{
		Name:  ys.Name,
		Vars:  domain.Vars(ys.Vars),
		Cases: make([]domain.CaseSpec, 0, len(ys.Cases)),
	}

	for i, c := range ys.Cases {
		fieldPrefix := fmt.Sprintf("cases[%d]", i)

		if strings.TrimSpace(c.Name) == "" {
			return domain.Suite{}, invalidField(path, fieldPrefix+".name", "case name is required")
		}
		if strings.TrimSpace(c.Path) == "" {
			return domain.Suite{}, invalidField(path, fieldPrefix+".path", "case path is required")
		}

		method, err := parseMethod(c.Method)
		if err != nil {
			return domain.Suite{}, invalidField(path, fieldPrefix+".method", err.Error())
		}

		auth, err := parseAuth(c.Auth)
		if err != nil {
			return domain.Suite{}, invalidField(path, fieldPrefix+".auth.mode", err.Error())
		}

		cs := domain.CaseSpec{
			Name:    c.Name,
			Method:  method,
			Path:    c.Path,
			Query:   domain.Query(c.Query),
			Headers: domain.Headers(c.Headers),
			Auth:    auth,
			Expect: domain.ExpectSpec{
				StatusIn:     append([]int(nil), c.Expect.StatusIn...),
				ContentType:  strings.TrimSpace(c.Expect.ContentType),
				MaxLatencyMS: c.Expect.MaxMS,
				JSONPath:     mapJSONPath(c.Expect.JSONPath),
			},
			Extract: domain.ExtractSpec(c.Extract),
		}

		if cs.Query == nil {
			cs.Query = domain.Query{}
		}
		if cs.Headers == nil {
			cs.Headers = domain.Headers{}
		}
		if cs.Expect.JSONPath == nil {
			cs.Expect.JSONPath = map[string]domain.JSONPathCheck{}
		}
		if cs.Extract == nil {
			cs.Extract = domain.ExtractSpec{}
		}

		// Body selection
		cs.Body = domain.BodySpec{Type: domain.BodyNone}
		if c.JSON != nil {
			cs.Body = domain.BodySpec{Type: domain.BodyJSON, JSON: c.JSON}
		} else if strings.TrimSpace(c.Raw) != "" {
			cs.Body = domain.BodySpec{Type: domain.BodyRaw, Raw: c.Raw}
		}
		cs.Body.ContentType = strings.TrimSpace(c.ContentType)

		suite.Cases = append(suite.Cases, cs)
	}

	return suite, nil
}

func mapJSONPath(in map[string]yamlJSONPathCheck) map[string]domain.JSONPathCheck {
	if in == nil {
		return nil
	}
	out := make(map[string]domain.JSONPathCheck, len(in))
	for k, v := range in {
		out[k] = domain.JSONPathCheck{
			Exists:   v.Exists,
			Type:     v.Type,
			Eq:       v.Eq,
			Contains: v.Contains,
			Matches:  v.Matches,
		}
	}
	return out
}

func parseMethod(m string) (domain.HTTPMethod, error) {
	up := strings.ToUpper(strings.TrimSpace(m))
	switch domain.HTTPMethod(up) {
	case domain.MethodGet,
		domain.MethodPost,
		domain.MethodPut,
		domain.MethodPatch,
		domain.MethodDelete:
		return domain.HTTPMethod(up), nil
	default:
		return "", fmt.Errorf("unsupported method %q", m)
	}
}

func parseAuth(a yamlAuth) (domain.AuthSpec, error) {
	mode := strings.ToLower(strings.TrimSpace(a.Mode))
	switch mode {
	case "", "bearer":
		return domain.AuthSpec{Mode: domain.AuthBearer, Token: a.Token}, nil
	case "none":
		return domain.AuthSpec{Mode: domain.AuthNone}, nil
	default:
		return domain.AuthSpec{}, fmt.Errorf("unsupported auth mode %q", a.Mode)
	}
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlsuite.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
