package tracewrap

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"tracewrap/object"
)

// Profile is a tracer configuration stored as TOML:
//
//	[output]
//	path = "stderr"
//	colour = "auto"
//	unwind_on_failure = false
//
//	[wrap]
//	method_type = "all"
//	visibility = "protected"
type Profile struct {
	Path   string        `toml:"-"`
	Output outputProfile `toml:"output"`
	Wrap   wrapProfile   `toml:"wrap"`
}

type outputProfile struct {
	Path            string `toml:"path"`
	Colour          string `toml:"colour"`
	UnwindOnFailure bool   `toml:"unwind_on_failure"`
}

type wrapProfile struct {
	MethodType string `toml:"method_type"`
	Visibility string `toml:"visibility"`
}

// LoadProfile reads and validates a TOML profile.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Profile{}, errors.Wrapf(err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Profile{}, errors.Newf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	p.Path = path
	if _, err := p.config(); err != nil {
		return Profile{}, errors.Wrapf(err, "%s", path)
	}
	return p, nil
}

// config converts the profile without opening the output.
func (p Profile) config() (Config, error) {
	var cfg Config
	var err error
	if cfg.Colour, err = ParseColourMode(p.Output.Colour); err != nil {
		return Config{}, err
	}
	if cfg.Wrap.MethodType, err = ParseMethodType(p.Wrap.MethodType); err != nil {
		return Config{}, err
	}
	if p.Wrap.Visibility != "" {
		if cfg.Wrap.Visibility, err = object.ParseVisibility(p.Wrap.Visibility); err != nil {
			return Config{}, err
		}
	}
	cfg.UnwindOnFailure = p.Output.UnwindOnFailure
	return cfg, nil
}

// Open converts the profile into a Config, opening its output. The returned
// function closes the output when the profile opened a file.
func (p Profile) Open() (Config, func() error, error) {
	cfg, err := p.config()
	if err != nil {
		return Config{}, nil, err
	}
	w, closeFn, err := OpenOutput(p.Output.Path)
	if err != nil {
		return Config{}, nil, err
	}
	cfg.Output = w
	return cfg, closeFn, nil
}
