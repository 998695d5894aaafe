package update

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/adamancini/ffupdate/internal/types"
)

// Download URL templates on ftp.mozilla.org. They must stay byte-exact.
const (
	// version, folder, version, suffix
	releaseTemplate = "https://ftp.mozilla.org/pub/mobile/releases/%s/android-%s/multi/fennec-%s.multi.android-%s.apk"
	// esr, folder, version, suffix
	nightlyTemplate = "https://ftp.mozilla.org/pub/mobile/nightly/latest-mozilla-esr%s-android-%s/fennec-%s.multi.android-%s.apk"
)

// BuildURL returns the download URL for variant on abi without checking
// that it exists. It fails with ErrUnsupported when the variant has no
// template, the ABI has no token mapping or the variant excludes the ABI,
// and when desc has no version for the variant's channel.
func BuildURL(variant types.Variant, abi types.ABI, desc VersionDescriptor) (string, error) {
	info, ok := types.Lookup(variant)
	if !ok {
		return "", fmt.Errorf("unknown variant %s: %w", variant, ErrUnsupported)
	}

	folder, ok := abi.FolderName()
	if !ok {
		return "", fmt.Errorf("unsupported abi %s: %w", abi, ErrUnsupported)
	}
	suffix, _ := abi.FileSuffix()

	if !variant.Supports(abi) {
		return "", fmt.Errorf("%s is not built for %s: %w", variant, abi, ErrUnsupported)
	}

	if info.Family == types.FamilyNone {
		return "", fmt.Errorf("%s has no download template: %w", variant, ErrUnsupported)
	}

	version, ok := desc.For(info.Family)
	if !ok {
		return "", fmt.Errorf("no %s version known for %s: %w", info.Family, variant, ErrUnsupported)
	}

	switch info.Family {
	case types.FamilyRelease, types.FamilyBeta:
		return fmt.Sprintf(releaseTemplate, version, folder, version, suffix), nil
	case types.FamilyNightly:
		return fmt.Sprintf(nightlyTemplate, ESRSegment(version), folder, version, suffix), nil
	}
	return "", fmt.Errorf("%s has unknown template family %q: %w", variant, info.Family, ErrUnsupported)
}

// Resolver turns a variant into a download URL that is known to exist.
type Resolver struct {
	prober Prober
	log    logrus.FieldLogger
}

// NewResolver creates a resolver that confirms URLs with prober.
func NewResolver(prober Prober, log logrus.FieldLogger) *Resolver {
	return &Resolver{prober: prober, log: log}
}

// Resolve builds the download URL for variant and probes it once.
//
// The boolean is true only when the server answered 200. Network errors,
// timeouts and other statuses are logged and reported as ("", false, nil).
// The error is reserved for configuration errors (ErrUnsupported).
func (r *Resolver) Resolve(ctx context.Context, variant types.Variant, abi types.ABI, desc VersionDescriptor) (string, bool, error) {
	url, err := BuildURL(variant, abi, desc)
	if err != nil {
		return "", false, err
	}

	url, ok := r.Confirm(ctx, variant, abi, url)
	return url, ok, nil
}

// Confirm probes a URL that was found elsewhere, such as a Mozilla CI
// artifact. It returns url and true only when the server answered 200.
func (r *Resolver) Confirm(ctx context.Context, variant types.Variant, abi types.ABI, url string) (string, bool) {
	log := r.log.WithFields(logrus.Fields{"variant": variant, "abi": abi, "url": url})
	if !r.prober.Exists(ctx, url) {
		log.Info("download url is not available yet")
		return "", false
	}

	log.Debug("resolved download url")
	return url, true
}
