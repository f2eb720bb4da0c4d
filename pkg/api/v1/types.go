package v1

import (
	cbev1 "github.com/Snakdy/container-build-engine/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/content"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Manifest is the document describing everything that must
// be written to a hotspot image.
type Manifest struct {
	Base        BaseConfig         `json:"base"`
	Output      OutputConfig       `json:"output"`
	OCIImages   []content.OCIImage `json:"ociImages"`
	Files       []content.File     `json:"files"`
	WriteConfig bool               `json:"writeConfig"`
	Offspot     OffspotConfig      `json:"offspot"`
}

type BaseConfig struct {
	Source     string            `json:"source"`
	RootfsSize ByteSize          `json:"rootfsSize"`
	Checksum   *content.Checksum `json:"checksum,omitempty"`
}

type OutputConfig struct {
	Size OutputSize `json:"size"`
}

type OffspotConfig struct {
	Timezone   string          `json:"timezone"`
	Hostname   string          `json:"hostname,omitempty"`
	Ethernet   EthernetConfig  `json:"ethernet"`
	AP         APConfig        `json:"ap"`
	Containers ContainerConfig `json:"containers"`
}

type EthernetType string

const (
	EthernetDHCP   EthernetType = "dhcp"
	EthernetStatic EthernetType = "static"
)

type EthernetConfig struct {
	Type    EthernetType `json:"type"`
	Address string       `json:"address,omitempty"`
	Routers []string     `json:"routers,omitempty"`
	DNS     []string     `json:"dns,omitempty"`
}

type APConfig struct {
	Domain     string `json:"domain"`
	TLD        string `json:"tld"`
	SSID       string `json:"ssid"`
	Passphrase string `json:"passphrase,omitempty"`
	AsGateway  bool   `json:"as-gateway"`
}

// ContainerConfig is a compose project.
type ContainerConfig struct {
	Name     string              `json:"name"`
	Services map[string]*Service `json:"services"`
}

// Service is a compose service.
type Service struct {
	Image         string            `json:"image"`
	ContainerName string            `json:"container_name"`
	Command       string            `json:"command,omitempty"`
	Environment   map[string]string `json:"environment,omitempty"`
	Volumes       []Volume          `json:"volumes,omitempty"`
	Ports         []string          `json:"ports,omitempty"`
	Expose        []string          `json:"expose,omitempty"`
	CapAdd        []string          `json:"cap_add,omitempty"`
	DependsOn     []string          `json:"depends_on,omitempty"`
	Links         []string          `json:"links,omitempty"`
	NetworkMode   string            `json:"network_mode,omitempty"`
	PullPolicy    string            `json:"pull_policy,omitempty"`
	Restart       string            `json:"restart,omitempty"`
	Privileged    bool              `json:"privileged,omitempty"`
	ReadOnly      bool              `json:"read_only,omitempty"`
}

type Volume struct {
	Type     string `json:"type"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	ReadOnly bool   `json:"read_only"`
}

type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hotspot is a request to build the manifest of a hotspot.
type Hotspot struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec HotspotSpec `json:"spec"`
}

type HotspotSpec struct {
	Name        string          `json:"name"`
	Base        BaseConfig      `json:"base"`
	Output      OutputConfig    `json:"output"`
	Domain      string          `json:"domain,omitempty"`
	TLD         string          `json:"tld,omitempty"`
	SSID        string          `json:"ssid,omitempty"`
	Passphrase  string          `json:"passphrase,omitempty"`
	AsGateway   bool            `json:"asGateway,omitempty"`
	Timezone    string          `json:"timezone,omitempty"`
	Hostname    string          `json:"hostname,omitempty"`
	Ethernet    *EthernetConfig `json:"ethernet,omitempty"`
	Environ     []EnvVar        `json:"environ,omitempty"`
	WriteConfig bool            `json:"writeConfig,omitempty"`
	Features    []Feature       `json:"features"`
}

// Feature is a single request to the manifest builder. Options
// depend on the type of feature.
type Feature struct {
	Type    string        `json:"type"`
	Options cbev1.Options `json:"options,omitempty"`
}
