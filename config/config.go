package config

import (
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	ROTATION_XYZW = "xyzw"
	ROTATION_WXYZ = "wxyz"
)

type Config struct {
	Addr    string `yaml:"addr"`
	Dir     string `yaml:"dir"`
	WebPath string `yaml:"web_path"`
	// Component order of joint rotations in the file
	RotationOrder string `yaml:"rotation_order"`
	// Max skin influences per vertex exported to gltf (JOINTS_0 holds 4)
	ExportInfluences int `yaml:"export_influences"`
}

func Default() Config {
	return Config{
		Addr:             ":8000",
		Dir:              ".",
		WebPath:          "web",
		RotationOrder:    ROTATION_XYZW,
		ExportInfluences: 4,
	}
}

var current = Default()

func Get() Config {
	return current
}

func Set(c Config) {
	current = c
}

func (c *Config) Validate() error {
	switch c.RotationOrder {
	case ROTATION_XYZW, ROTATION_WXYZ:
	default:
		return errors.Errorf("Unknown rotation order %q", c.RotationOrder)
	}
	if c.ExportInfluences < 1 || c.ExportInfluences > 4 {
		return errors.Errorf("export_influences must be in range 1..4, got %d", c.ExportInfluences)
	}
	return nil
}

// Load reads yaml config over defaults. Missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, errors.Wrapf(err, "Cannot read config %q", path)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "Unmarshaling config %q", path)
	}
	if err := c.Validate(); err != nil {
		return c, errors.Wrapf(err, "Invalid config %q", path)
	}
	return c, nil
}
