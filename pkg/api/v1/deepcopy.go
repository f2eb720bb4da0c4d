package v1

import (
	"maps"
	"slices"
)

func (s *Service) DeepCopy() *Service {
	if s == nil {
		return nil
	}
	out := *s
	out.Environment = maps.Clone(s.Environment)
	out.Volumes = slices.Clone(s.Volumes)
	out.Ports = slices.Clone(s.Ports)
	out.Expose = slices.Clone(s.Expose)
	out.CapAdd = slices.Clone(s.CapAdd)
	out.DependsOn = slices.Clone(s.DependsOn)
	out.Links = slices.Clone(s.Links)
	return &out
}

func (m *Manifest) DeepCopy() *Manifest {
	if m == nil {
		return nil
	}
	out := *m
	if m.Base.Checksum != nil {
		c := *m.Base.Checksum
		out.Base.Checksum = &c
	}
	out.OCIImages = slices.Clone(m.OCIImages)
	out.Files = slices.Clone(m.Files)
	out.Offspot.Ethernet.Routers = slices.Clone(m.Offspot.Ethernet.Routers)
	out.Offspot.Ethernet.DNS = slices.Clone(m.Offspot.Ethernet.DNS)
	if m.Offspot.Containers.Services != nil {
		out.Offspot.Containers.Services = make(map[string]*Service, len(m.Offspot.Containers.Services))
		for k, v := range m.Offspot.Containers.Services {
			out.Offspot.Containers.Services[k] = v.DeepCopy()
		}
	}
	return &out
}
