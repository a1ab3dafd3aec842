package resolver

import (
	"path/filepath"
	"strings"

	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/engine/assets"
)

// request is one resolution of one specifier from one origin.
type request struct {
	cfg       *Config
	origin    string
	specifier string
	platform  string
}

type result struct {
	path  string
	asset *domain.AssetResolution
}

func (r *Resolver) newRequest(origin, specifier, platform string) request {
	return request{
		cfg:       &r.cfg,
		origin:    filepath.Clean(origin),
		specifier: specifier,
		platform:  platform,
	}
}

func (q request) notFound() error {
	return domain.NewModuleNotFoundError(q.origin, q.specifier, q.platform)
}

func (q request) resolve() (result, error) {
	if q.specifier == "" {
		return result{}, q.notFound()
	}

	if IsPathShaped(q.specifier) {
		candidate := q.specifier
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(filepath.Dir(q.origin), candidate)
		}
		return q.resolvePath(filepath.Clean(candidate))
	}

	if target, ok := q.redirect(); ok {
		return q.resolvePath(target)
	}

	if registered, ok := q.cfg.Registry.PathOfGlobalName(q.specifier); ok {
		return q.resolveFileOrFail(registered)
	}

	return q.walkThirdParty()
}

// resolvePath applies the asset lookup before the file lookup.
func (q request) resolvePath(candidate string) (result, error) {
	name := filepath.Base(candidate)
	if assets.IsAsset(q.cfg.Options, name) {
		return q.resolveAsset(candidate)
	}
	return q.resolveFileOrFail(candidate)
}

// resolveAsset returns the variant set of candidate. A name that spells out a
// density or platform suffix resolves to that exact file when it is tracked,
// even outside the ranked set.
func (q request) resolveAsset(candidate string) (result, error) {
	dir, name := filepath.Split(candidate)
	dir = filepath.Clean(dir)

	found, ok := q.cfg.Assets.Resolve(dir, name, q.platform)
	if ok && found.Contains(candidate) {
		return result{path: candidate, asset: &found}, nil
	}

	parsed, valid := assets.ParseName(q.cfg.Options, name)
	if valid && name != parsed.Base+"."+parsed.Ext && q.cfg.Registry.Exists(candidate) {
		exact := domain.AssetResolution{
			Dir:      dir,
			BaseName: parsed.Base,
			Ext:      parsed.Ext,
			Variants: []domain.AssetVariant{{Path: candidate, Density: parsed.Density, Platform: parsed.Platform}},
		}
		return result{path: candidate, asset: &exact}, nil
	}

	if !ok {
		return result{}, q.notFound()
	}
	return result{path: found.Primary(), asset: &found}, nil
}

func (q request) resolveFileOrFail(candidate string) (result, error) {
	path, ok, err := q.resolveFile(candidate)
	if err != nil {
		return result{}, err
	}
	if !ok {
		return result{}, q.notFound()
	}
	return result{path: path}, nil
}

// resolveFile tries the exact file, the directory, then source extensions.
func (q request) resolveFile(candidate string) (string, bool, error) {
	if q.cfg.Registry.Exists(candidate) {
		return candidate, true, nil
	}

	if q.cfg.Files.HasDir(candidate) {
		path, ok, err := q.resolveDir(candidate)
		if err != nil || ok {
			return path, ok, err
		}
	}

	path, ok := q.withExtensions(candidate)
	return path, ok, nil
}

// resolveDir consults the directory's own manifest, then its index file.
func (q request) resolveDir(dir string) (string, bool, error) {
	manifestPath := filepath.Join(dir, domain.ManifestFileName)
	if q.cfg.Registry.Exists(manifestPath) {
		manifest, err := q.cfg.Manifests.Manifest(manifestPath)
		if err != nil {
			return "", false, err
		}
		for _, entry := range manifest.EntryPoints(q.cfg.Options.MainFields) {
			target := filepath.Join(dir, entry)
			if q.cfg.Registry.Exists(target) {
				return target, true, nil
			}
			if path, ok := q.withExtensions(target); ok {
				return path, true, nil
			}
			if q.cfg.Files.HasDir(target) {
				if path, ok := q.withExtensions(filepath.Join(target, domain.IndexBaseName)); ok {
					return path, true, nil
				}
			}
		}
	}

	path, ok := q.withExtensions(filepath.Join(dir, domain.IndexBaseName))
	return path, ok, nil
}

// withExtensions appends each source extension in order, trying platform
// qualified names before the bare one.
func (q request) withExtensions(base string) (string, bool) {
	for _, ext := range q.cfg.Options.SourceExts {
		for _, platform := range q.platformSuffixes() {
			candidate := base + "." + ext
			if platform != "" {
				candidate = base + "." + platform + "." + ext
			}
			if q.cfg.Registry.Exists(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func (q request) platformSuffixes() []string {
	suffixes := make([]string, 0, 3)
	if q.platform != "" {
		suffixes = append(suffixes, q.platform)
	}
	if q.cfg.Options.PreferNativePlatform && q.platform != domain.NativePlatform {
		suffixes = append(suffixes, domain.NativePlatform)
	}
	return append(suffixes, "")
}

// redirect maps a bare specifier through the redirect table.
// The longest matching prefix wins; among equal prefixes the first entry wins.
func (q request) redirect() (string, bool) {
	var best *domain.Redirect
	for i := range q.cfg.Options.Redirects {
		r := &q.cfg.Options.Redirects[i]
		if q.specifier != r.Prefix && !strings.HasPrefix(q.specifier, r.Prefix+"/") {
			continue
		}
		if best == nil || len(r.Prefix) > len(best.Prefix) {
			best = r
		}
	}
	if best == nil {
		return "", false
	}

	target := best.Target
	if !filepath.IsAbs(target) {
		target = filepath.Join(q.cfg.Options.Root, target)
	}
	return filepath.Join(target, strings.TrimPrefix(q.specifier, best.Prefix)), true
}

// walkThirdParty searches the third-party directory of the origin's directory
// and every ancestor up to the filesystem root.
func (q request) walkThirdParty() (result, error) {
	thirdParty := q.cfg.Options.ThirdPartyDir
	dir := filepath.Dir(q.origin)

	for {
		if filepath.Base(dir) != thirdParty {
			path, ok, err := q.resolveFile(filepath.Join(dir, thirdParty, q.specifier))
			if err != nil {
				return result{}, err
			}
			if ok {
				return result{path: path}, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return result{}, q.notFound()
		}
		dir = parent
	}
}
