// Package cmd contains the CLI command implementations.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/adamancini/ffupdate/internal/archive"
	"github.com/adamancini/ffupdate/internal/config"
	"github.com/adamancini/ffupdate/internal/device"
	"github.com/adamancini/ffupdate/internal/types"
	"github.com/adamancini/ffupdate/internal/update"
)

// errUnavailable is returned when a download URL was built but the server
// does not have it (yet).
var errUnavailable = errors.New("download is not available")

// Options carries the global flags that override the configuration file.
type Options struct {
	ConfigPath string
	Inventory  string
	ABI        string
	Serial     string
	Progress   update.ProgressFunc
}

// AvailableApp is a variant that is not installed on the device.
type AvailableApp struct {
	Variant   types.Variant `json:"variant" yaml:"variant"`
	Title     string        `json:"title" yaml:"title"`
	Supported bool          `json:"supported" yaml:"supported"`
	Warning   string        `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Service wires the device, metadata and download collaborators behind
// the operations the commands expose.
type Service struct {
	cfg        *config.Config
	dev        device.Device
	enumerator *device.Enumerator
	metadata   update.MetadataFetcher
	resolver   *update.Resolver
	ci         update.CIFetcher
	downloader update.Downloader
	log        logrus.FieldLogger
}

// NewService loads the configuration, applies flag overrides and builds
// the default collaborators.
func NewService(opts Options, log logrus.FieldLogger) (*Service, error) {
	cfg, path, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.WithField("path", path).Debug("using config file")
	}

	if opts.Inventory != "" {
		cfg.Inventory = opts.Inventory
	}
	if opts.ABI != "" {
		cfg.ABI = opts.ABI
	}
	if opts.Serial != "" {
		cfg.ADB.Serial = opts.Serial
	}

	var dev device.Device
	if cfg.Inventory != "" {
		dev = &device.InventoryPackageManager{Path: cfg.Inventory}
	} else {
		dev = device.NewADBPackageManager(cfg.ADB.Path, cfg.ADB.Serial)
	}

	downloader := update.NewHTTPDownloader(&http.Client{Timeout: cfg.DownloadTimeout()})
	if opts.Progress != nil {
		downloader = downloader.WithProgress(opts.Progress)
	}

	svc := NewServiceWithDeps(
		cfg,
		dev,
		update.NewProductDetailsFetcher(cfg.MetadataURL),
		update.NewHTTPProber(cfg.ProbeConnectTimeout(), cfg.ProbeReadTimeout(), log),
		downloader,
		log,
	)
	if !cfg.MozillaCI.Disabled {
		svc.WithMozillaCI(newCIFetcher(cfg.MozillaCI))
	}
	return svc, nil
}

// newCIFetcher builds the Mozilla CI fetcher with the configured task
// overrides applied.
func newCIFetcher(cfg config.MozillaCIConfig) *update.MozillaCIFetcher {
	fetcher := update.NewMozillaCIFetcher(cfg.IndexURL)
	for name, task := range cfg.Tasks {
		variant, err := types.ParseVariant(name)
		if err != nil {
			continue
		}
		fetcher.WithSource(variant, update.CISource{Task: task.Task, Artifact: task.Artifact})
	}
	return fetcher
}

// NewServiceWithDeps creates a service with custom dependencies (for testing).
func NewServiceWithDeps(
	cfg *config.Config,
	dev device.Device,
	metadata update.MetadataFetcher,
	prober update.Prober,
	downloader update.Downloader,
	log logrus.FieldLogger,
) *Service {
	return &Service{
		cfg:        cfg,
		dev:        dev,
		enumerator: device.NewEnumerator(dev, log),
		metadata:   metadata,
		resolver:   update.NewResolver(prober, log),
		downloader: downloader,
		log:        log,
	}
}

// WithMozillaCI tracks the variants ci knows about, which are not
// published on ftp.mozilla.org.
func (s *Service) WithMozillaCI(ci update.CIFetcher) *Service {
	s.ci = ci
	return s
}

// Config returns the effective configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// ABI returns the configured ABI, or the device's when none is configured.
func (s *Service) ABI(ctx context.Context) (types.ABI, error) {
	if s.cfg.ABI != "" {
		return types.ParseABI(s.cfg.ABI)
	}
	abi, err := s.dev.DetectABI(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to detect device abi (use --abi): %w", err)
	}
	return abi, nil
}

// Status reports every installed variant against the published versions.
// Variants listed under exclude are reported without an update check.
func (s *Service) Status(ctx context.Context) ([]update.AppStatus, error) {
	checker := update.NewChecker(s.enumerator, s.metadata).WithExcluded(s.cfg.Excluded())
	if s.ci != nil {
		if abi, err := s.ABI(ctx); err == nil {
			checker.WithMozillaCI(s.ci, abi)
		} else {
			s.log.WithError(err).Debug("skipping mozilla ci update checks")
		}
	}
	return checker.Check(ctx)
}

// Available lists the variants that are not installed, and whether each
// one can be installed on the device ABI.
func (s *Service) Available(ctx context.Context) ([]AvailableApp, error) {
	abi, err := s.ABI(ctx)
	if err != nil {
		return nil, err
	}

	_, notInstalled, err := s.enumerator.Partition(ctx)
	if err != nil {
		return nil, err
	}
	apps := make([]AvailableApp, 0, len(notInstalled))
	for _, v := range notInstalled {
		info := v.Info()
		apps = append(apps, AvailableApp{
			Variant:   v,
			Title:     info.Title,
			Supported: v.Supports(abi),
			Warning:   info.Warning,
		})
	}
	return apps, nil
}

// Resolve returns the download URL of variant for the device ABI. The
// boolean is false when the URL is not published.
func (s *Service) Resolve(ctx context.Context, variant types.Variant) (string, bool, error) {
	url, _, ok, err := s.resolve(ctx, variant)
	return url, ok, err
}

// resolve also returns the local file name of the download.
func (s *Service) resolve(ctx context.Context, variant types.Variant) (url, name string, ok bool, err error) {
	if err := variant.Validate(); err != nil {
		return "", "", false, err
	}
	abi, err := s.ABI(ctx)
	if err != nil {
		return "", "", false, err
	}
	if !variant.Supports(abi) {
		return "", "", false, fmt.Errorf("%s is not available for %s: %w", variant.Info().Title, abi, update.ErrUnsupported)
	}

	if variant.Family() == types.FamilyNone {
		if s.ci == nil || !s.ci.Tracks(variant) {
			return "", "", false, fmt.Errorf("%s is not published on ftp.mozilla.org or mozilla ci: %w", variant.Info().Title, update.ErrUnsupported)
		}
		release, err := s.ci.Fetch(ctx, variant, abi)
		if err != nil {
			return "", "", false, err
		}
		url, ok := s.resolver.Confirm(ctx, variant, abi, release.URL)
		return url, update.CIFileName(variant, release.Version, abi), ok, nil
	}

	desc, err := s.metadata.Fetch(ctx)
	if err != nil {
		return "", "", false, err
	}
	url, ok, err = s.resolver.Resolve(ctx, variant, abi, desc)
	return url, update.FileName(url), ok, err
}

// Download resolves variant and downloads it into destDir, returning the
// path of the APK.
func (s *Service) Download(ctx context.Context, variant types.Variant, destDir string) (string, error) {
	url, name, ok, err := s.resolve(ctx, variant)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s: %w", variant, errUnavailable)
	}

	if destDir == "" {
		destDir = s.cfg.DownloadDir
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	dst := filepath.Join(destDir, name)
	s.log.WithFields(logrus.Fields{"variant": variant, "url": url, "path": dst}).Info("downloading")
	if err := s.downloader.Download(ctx, url, dst); err != nil {
		return "", err
	}

	if keep := s.cfg.Download.Keep; keep > 0 {
		manager := archive.NewManager(destDir)
		result, err := manager.Prune(keep, false, name)
		if err != nil {
			s.log.WithError(err).Warn("failed to prune old downloads")
		} else {
			for _, apk := range result.Deleted {
				s.log.WithField("path", filepath.Join(manager.Dir(), apk.Name)).Info("removed old download")
			}
		}
	}
	return dst, nil
}

// Install installs a downloaded APK on the device. It needs a device
// reached over adb.
func (s *Service) Install(ctx context.Context, apkPath string) (device.InstallResult, error) {
	installer, ok := s.dev.(device.Installer)
	if !ok {
		return device.InstallResult{}, fmt.Errorf("installing needs a device attached over adb, not an inventory")
	}

	s.log.WithField("path", apkPath).Info("installing")
	return installer.Install(ctx, apkPath)
}

// Export captures the device's installed variants as an inventory. The
// ABI is recorded when it can be determined; a device that cannot be read
// is an error.
func (s *Service) Export(ctx context.Context) (*device.Inventory, error) {
	apps, err := s.enumerator.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	inv := &device.Inventory{
		Version:  1,
		Packages: make(map[string]string, len(apps)),
	}
	if abi, err := s.ABI(ctx); err == nil {
		inv.ABI = abi
	} else {
		s.log.WithError(err).Warn("exporting inventory without abi")
	}

	for _, app := range apps {
		inv.Packages[app.Variant.PackageID()] = app.Version
	}
	return inv, nil
}
