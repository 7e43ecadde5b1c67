// Package config 运行配置: 默认值, YAML 配置文件与命令行参数
package config

import (
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Equation backends for the final probabilistic solve.
const (
	BackendScript = "script"
	BackendYices  = "yices"
)

type Config struct {
	SolverPath string        `yaml:"solver"`
	SolverArgs []string      `yaml:"solver_args"`
	Timeout    time.Duration `yaml:"timeout"`
	Workers    int           `yaml:"workers"`
	TmpDir     string        `yaml:"tmp_dir"`
	// FailFast stops the run at the first unit that does not close.
	FailFast        bool   `yaml:"fail_fast"`
	ModelCmd        string `yaml:"model_cmd"`
	EquationBackend string `yaml:"equation_backend"`
	ConciseProofs   bool   `yaml:"concise_proofs"`
}

func Default() *Config {
	return &Config{
		SolverPath:      "z3",
		Timeout:         60 * time.Second,
		Workers:         runtime.NumCPU(),
		TmpDir:          os.TempDir(),
		EquationBackend: BackendScript,
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.SolverPath == "" {
		return errors.New("solver path is empty")
	}
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	c.EquationBackend = strings.ToLower(c.EquationBackend)
	switch c.EquationBackend {
	case "":
		c.EquationBackend = BackendScript
	case BackendScript, BackendYices:
	default:
		return errors.Errorf("unknown equation backend %q", c.EquationBackend)
	}
	return nil
}

// Flags are the command line overrides; a flag only wins when it was set.
type Flags struct {
	solver   string
	args     []string
	timeout  time.Duration
	workers  int
	tmpDir   string
	failFast bool
	modelCmd string
	backend  string
	concise  bool
	set      *flag.FlagSet
}

func (f *Flags) Register(fs *flag.FlagSet) {
	d := Default()
	fs.StringVar(&f.solver, "solver", d.SolverPath, "smt solver binary")
	fs.StringSliceVar(&f.args, "solver-args", nil, "extra solver arguments")
	fs.DurationVar(&f.timeout, "timeout", d.Timeout, "per obligation solver timeout")
	fs.IntVar(&f.workers, "workers", d.Workers, "parallel solver calls")
	fs.StringVar(&f.tmpDir, "tmp-dir", d.TmpDir, "directory for solver scripts")
	fs.BoolVar(&f.failFast, "fail-fast", false, "stop at the first unit that does not close")
	fs.StringVar(&f.modelCmd, "model-cmd", "", "command emitted after (check-sat), e.g. (get-model)")
	fs.StringVar(&f.backend, "equations", d.EquationBackend, "probability equation backend: script or yices")
	fs.BoolVar(&f.concise, "concise", false, "declare only the heaps an obligation uses")
	f.set = fs
}

func (f *Flags) Apply(c *Config) error {
	if f.set == nil {
		return c.Validate()
	}
	f.set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "solver":
			c.SolverPath = f.solver
		case "solver-args":
			c.SolverArgs = f.args
		case "timeout":
			c.Timeout = f.timeout
		case "workers":
			c.Workers = f.workers
		case "tmp-dir":
			c.TmpDir = f.tmpDir
		case "fail-fast":
			c.FailFast = f.failFast
		case "model-cmd":
			c.ModelCmd = f.modelCmd
		case "equations":
			c.EquationBackend = f.backend
		case "concise":
			c.ConciseProofs = f.concise
		}
	})
	return c.Validate()
}
