package sources

import (
	"os"

	"gopkg.in/yaml.v3"
)

// BlogsConfig is the YAML source list structure:
//
// blogs:
//   - https://...
type BlogsConfig struct {
	Blogs []string `yaml:"blogs"`
}

// LoadBlogs reads the curated blog URL list from a YAML file.
func LoadBlogs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg BlogsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Blogs, nil
}
