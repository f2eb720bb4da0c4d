package macros

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/offspot/offspot-config/pkg/catalog"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/offspot/offspot-config/pkg/packages"
)

// ReverseProxyName is the name of the reverse-proxy service.
const ReverseProxyName = "reverse-proxy"

var ErrUnresolved = errors.New("unresolved variable")

var (
	environRe = regexp.MustCompile(`\$environ\{([^{}]+)\}`)
	macroRe   = regexp.MustCompile(`\$\{([A-Z_]+)(?::([^{}]*))?\}`)
)

// AppDirFunc returns the on-host directory of a catalog package.
type AppDirFunc func(ident string) (string, error)

// Context holds what variables are resolved against.
type Context struct {
	FQDN    string
	Environ map[string]string
	AppDir  AppDirFunc
}

type resolveFunc func(arg string, pkg packages.Package) (string, error)

// Resolver substitutes variables in text fields.
//
// $environ{NAME} is replaced by the environment value of NAME, then
// ${NAME} and ${NAME:arg} are replaced by their registered values.
// Environment values may therefore contain ${NAME} macros, but values
// substituted for ${NAME} are never expanded again. Unregistered
// ${NAME} are left as is, for the container to handle.
type Resolver struct {
	ctx   Context
	table map[string]resolveFunc
}

func NewResolver(ctx Context) *Resolver {
	r := &Resolver{ctx: ctx}
	r.table = map[string]resolveFunc{
		"FQDN":                   constant(ctx.FQDN),
		"REVERSE_NAME":           constant(ReverseProxyName),
		"BRANDING_PATH":          constant(content.BrandingPath),
		"ORIGINAL_BRANDING_PATH": constant(content.OriginalBrandingPath),
		"APP_DIR":                r.appDir,
		"PACKAGE_IDENT": withPackage(func(p packages.Package) string {
			return p.Meta().Ident
		}),
		"PACKAGE_DOMAIN": withPackage(func(p packages.Package) string {
			return p.Meta().Domain
		}),
		"PACKAGE_FQDN": withPackage(func(p packages.Package) string {
			return p.Meta().Domain + "." + ctx.FQDN
		}),
	}
	return r
}

// Resolve returns text with every variable substituted. pkg may be
// nil in which case package variables are an error.
func (r *Resolver) Resolve(text string, pkg packages.Package) (string, error) {
	var errs []error
	text = environRe.ReplaceAllStringFunc(text, func(m string) string {
		name := environRe.FindStringSubmatch(m)[1]
		val, ok := r.ctx.Environ[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: $environ{%s}", ErrUnresolved, name))
			return m
		}
		return val
	})
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}

	text = macroRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := macroRe.FindStringSubmatch(m)
		fn, ok := r.table[sub[1]]
		if !ok {
			return m
		}
		val, err := fn(sub[2], pkg)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m, err))
			return m
		}
		return val
	})
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return text, nil
}

// ResolveAll resolves every value of a map.
func (r *Resolver) ResolveAll(values map[string]string, pkg packages.Package) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for k, v := range values {
		val, err := r.Resolve(v, pkg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}

func (r *Resolver) appDir(arg string, pkg packages.Package) (string, error) {
	if arg != "" {
		if r.ctx.AppDir == nil {
			return "", fmt.Errorf("%w: no catalog to look %s up", ErrUnresolved, arg)
		}
		return r.ctx.AppDir(arg)
	}
	if pkg == nil {
		return "", fmt.Errorf("%w: not in a package context", ErrUnresolved)
	}
	return catalog.AppDir(pkg.Meta().Ident), nil
}

func constant(val string) resolveFunc {
	return func(string, packages.Package) (string, error) {
		return val, nil
	}
}

func withPackage(fn func(p packages.Package) string) resolveFunc {
	return func(_ string, pkg packages.Package) (string, error) {
		if pkg == nil {
			return "", fmt.Errorf("%w: not in a package context", ErrUnresolved)
		}
		return fn(pkg), nil
	}
}
