package dashboard

import (
	"github.com/offspot/offspot-config/pkg/packages"
	"sigs.k8s.io/yaml"
)

// ConfigPath is where the dashboard container expects its configuration.
const ConfigPath = "/src/home.yaml"

type Metadata struct {
	Name string `json:"name"`
	FQDN string `json:"fqdn"`
}

// Config is the configuration file read by the dashboard.
type Config struct {
	Metadata Metadata                  `json:"metadata"`
	Packages []packages.DashboardEntry `json:"packages"`
	Readers  []Reader                  `json:"readers,omitempty"`
	Links    []Link                    `json:"links,omitempty"`
}

// Marshal returns the YAML document of the configuration with
// readers in platform order.
func (c Config) Marshal() ([]byte, error) {
	if c.Packages == nil {
		c.Packages = []packages.DashboardEntry{}
	}
	readers := make([]Reader, len(c.Readers))
	copy(readers, c.Readers)
	SortReaders(readers)
	c.Readers = readers
	return yaml.Marshal(c)
}
