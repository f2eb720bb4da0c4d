package builder

import (
	"context"
	"fmt"
	"maps"

	"github.com/go-logr/logr"
	v1 "github.com/offspot/offspot-config/pkg/api/v1"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/offspot/offspot-config/pkg/packages"
)

// AddZim adds a ZIM to the content served by kiwix-serve.
func (b *ConfigBuilder) AddZim(ctx context.Context, zim *packages.ZimPackage) error {
	if b.rendered {
		return ErrRendered
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("ident", zim.Ident)

	f, err := zim.File()
	if err != nil {
		return err
	}
	if err := b.addFile(f); err != nil {
		return err
	}
	if !b.hasEntry(zim) {
		log.V(1).Info("adding zim")
		b.entries = append(b.entries, zim)
	}

	if !b.withKiwixServe {
		if err := b.EnsureHostPath(packages.ZimsPath); err != nil {
			return err
		}
		b.addImage(kiwixServeImage)
		b.addService(KiwixService, &v1.Service{
			Image:         kiwixServeImage.Source(),
			ContainerName: KiwixService,
			PullPolicy:    "never",
			Restart:       "unless-stopped",
			Expose:        []string{"80"},
			Volumes: []v1.Volume{
				bindMount(packages.ZimsPath, "/data", true),
			},
			Command: `/bin/sh -c "kiwix-serve --blockexternal --port 80 --nodatealiases /data/*.zim"`,
		})
		b.addImage(zimManagerImage)
		b.addService(ZimManagerService, &v1.Service{
			Image:         zimManagerImage.Source(),
			ContainerName: ZimManagerService,
			PullPolicy:    "never",
			Restart:       "unless-stopped",
			Expose:        []string{"80"},
			Environment: map[string]string{
				"ZIM_DIR":   "/data",
				"KIWIX_URL": "http://" + KiwixService + ":80",
			},
			Volumes: []v1.Volume{
				bindMount(packages.ZimsPath, "/data", false),
			},
			DependsOn: []string{KiwixService},
		})
		b.reversed.Insert(KiwixService)
		b.withKiwixServe = true
	}

	if b.zimDownloads {
		return b.enableZimDownloads(ctx)
	}
	return nil
}

// AddFilesPackage adds a package served by the files service.
func (b *ConfigBuilder) AddFilesPackage(ctx context.Context, pkg *packages.FilesPackage) error {
	if b.rendered {
		return ErrRendered
	}
	if b.hasEntry(pkg) {
		return nil
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("adding files package", "ident", pkg.Ident)

	f, err := pkg.File()
	if err != nil {
		return err
	}
	if err := b.addFile(f); err != nil {
		return err
	}
	if err := b.AddFilesService(ctx); err != nil {
		return err
	}
	b.entries = append(b.entries, pkg)
	b.filesMapping[pkg.Domain] = pkg.Folder()
	return nil
}

// AddApp adds an app to the hotspot. environ overrides the environment
// of the app's container. The package must be an AppPackage.
func (b *ConfigBuilder) AddApp(ctx context.Context, pkg packages.Package, environ map[string]string) error {
	if b.rendered {
		return ErrRendered
	}
	app, ok := pkg.(*packages.AppPackage)
	if !ok {
		return fmt.Errorf("%s: %w", pkg.Meta().Ident, packages.ErrNotApp)
	}
	if _, ok := b.service(app.Ident); ok || b.hasEntry(app) {
		return nil
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("ident", app.Ident)
	log.V(1).Info("adding app")

	// resolve everything before modifying the builder
	img, err := app.OCIImage()
	if err != nil {
		return err
	}
	svc := &v1.Service{
		Image:         img.Source(),
		ContainerName: app.Domain,
		Environment:   map[string]string{},
		PullPolicy:    "never",
		Restart:       "unless-stopped",
		Expose:        []string{"80"},
	}

	env, err := b.resolver.ResolveAll(app.Environ, app)
	if err != nil {
		return fmt.Errorf("%s: %w", app.Ident, err)
	}
	maps.Copy(svc.Environment, env)
	for global, local := range app.EnvironMap {
		val, err := b.Resolve(b.opts.Environ[global], app)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", app.Ident, local, err)
		}
		svc.Environment[local] = val
	}
	env, err = b.resolver.ResolveAll(environ, app)
	if err != nil {
		return fmt.Errorf("%s: %w", app.Ident, err)
	}
	maps.Copy(svc.Environment, env)

	var hostPaths []string
	for _, spec := range app.Volumes {
		host, target, readOnly, err := packages.SplitVolume(spec)
		if err != nil {
			return err
		}
		host, err = b.Resolve(host, app)
		if err != nil {
			return fmt.Errorf("%s: volume %s: %w", app.Ident, spec, err)
		}
		hostPaths = append(hostPaths, host)
		svc.Volumes = append(svc.Volumes, bindMount(host, target, readOnly))
	}

	for _, link := range app.Links {
		val, err := b.Resolve(link, app)
		if err != nil {
			return fmt.Errorf("%s: link %s: %w", app.Ident, link, err)
		}
		svc.Links = append(svc.Links, val)
	}

	var routes []string
	for sub, target := range app.SubServices {
		route, err := b.Resolve(sub+"."+app.Domain+":"+target, app)
		if err != nil {
			return fmt.Errorf("%s: sub-service %s: %w", app.Ident, sub, err)
		}
		routes = append(routes, route)
	}

	var creds *packages.Credentials
	if app.ProtectedBy != nil {
		user, err := b.Resolve(app.ProtectedBy.Username, app)
		if err != nil {
			return fmt.Errorf("%s: protection: %w", app.Ident, err)
		}
		pass, err := b.Resolve(app.ProtectedBy.Password, app)
		if err != nil {
			return fmt.Errorf("%s: protection: %w", app.Ident, err)
		}
		creds = &packages.Credentials{Username: user, Password: pass}
	}

	var payload *content.File
	if app.HasFile() {
		f, err := app.File()
		if err != nil {
			return err
		}
		if i, ok := b.destinations[f.To]; ok && !b.manifest.Files[i].Equal(f) {
			return fmt.Errorf("%w: %s", ErrDuplicateFile, f.To)
		}
		payload = &f
	}

	if payload != nil {
		if err := b.addFile(*payload); err != nil {
			return err
		}
	}
	for _, p := range hostPaths {
		if err := b.EnsureHostPath(p); err != nil {
			return err
		}
	}
	b.addImage(img)
	b.addService(app.Ident, svc)
	b.entries = append(b.entries, app)
	b.reversed.Insert(routes...)
	if creds != nil {
		b.protected[app.Domain] = *creds
	}
	b.reversed.Insert(app.Domain)
	return nil
}
