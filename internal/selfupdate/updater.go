package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// binaryName is the executable inside release archives.
	binaryName = "sensei"

	// maxAssetSize caps a downloaded archive.
	maxAssetSize = 256 << 20

	checksumsAsset = "checksums.txt"
)

var (
	ErrDevBuild            = errors.New("cannot update a development build")
	ErrAlreadyLatest       = errors.New("already running the latest version")
	ErrChecksum            = errors.New("checksum verification failed")
	ErrUnsupportedPlatform = errors.New("no release build for this platform")
)

// Stage names a step of an update.
type Stage string

const (
	StageCheck    Stage = "check"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageExtract  Stage = "extract"
	StageApply    Stage = "apply"
	StageDone     Stage = "done"
)

// UpdateInput selects the release to install. An empty TargetVersion means
// the latest release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress is reported at each stage of an update.
type UpdateProgress struct {
	Stage   Stage
	Message string
}

// Update downloads a release archive next to the running executable,
// verifies it against the release's checksums.txt, unpacks the binary and
// renames it over the executable.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if progress == nil {
		progress = func(UpdateProgress) {}
	}
	if input.CurrentVersion == "" || input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}

	tag := input.TargetVersion
	if tag == "" {
		progress(UpdateProgress{Stage: StageCheck, Message: "Checking for the latest release..."})
		result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !result.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = result.LatestVersion
	}

	asset, err := assetNameFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	work, err := os.MkdirTemp(filepath.Dir(target), "."+binaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(work) }()

	progress(UpdateProgress{Stage: StageDownload, Message: fmt.Sprintf("Downloading %s (%s)...", tag, asset)})
	var sums bytes.Buffer
	if _, err := c.download(ctx, c.releaseAssetURL(tag, checksumsAsset), &sums); err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums.Bytes())[asset]
	if !ok {
		return fmt.Errorf("%w: %s is not listed in %s", ErrChecksum, asset, checksumsAsset)
	}

	archivePath := filepath.Join(work, asset)
	got, err := c.downloadFile(ctx, c.releaseAssetURL(tag, asset), archivePath)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	progress(UpdateProgress{Stage: StageVerify, Message: "Verifying checksum..."})
	if !strings.EqualFold(got, want) {
		return fmt.Errorf("%w: %s has sha256 %s, want %s", ErrChecksum, asset, got, want)
	}

	progress(UpdateProgress{Stage: StageExtract, Message: "Extracting binary..."})
	staged := filepath.Join(work, binaryName+"-new")
	if err := extractBinary(archivePath, staged); err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{Stage: StageApply, Message: "Installing..."})
	if err := install(staged, target); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	progress(UpdateProgress{Stage: StageDone, Message: fmt.Sprintf("Updated to %s", tag)})
	return nil
}

func (c *Checker) releaseAssetURL(tag, name string) string {
	base := strings.TrimRight(c.downloadBaseURL, "/")
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", base, c.owner, c.repo, tag, name)
}

// assetNameFor returns the archive name a release publishes for a platform,
// for example sensei_linux_amd64.tar.gz or sensei_windows_arm64.zip.
func assetNameFor(goos, goarch string) (string, error) {
	switch goarch {
	case "amd64", "arm64":
	default:
		return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
	switch goos {
	case "linux", "darwin":
		return fmt.Sprintf("%s_%s_%s.tar.gz", binaryName, goos, goarch), nil
	case "windows":
		return fmt.Sprintf("%s_%s_%s.zip", binaryName, goos, goarch), nil
	default:
		return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
}

// download copies url into w and returns the hex sha256 of what was read.
func (c *Checker) download(ctx context.Context, url string, w io.Writer) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(w, h), io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return "", err
	}
	if n > maxAssetSize {
		return "", fmt.Errorf("%s is larger than %d bytes", url, maxAssetSize)
	}
	return hexSum(h), nil
}

// downloadFile streams url into path.
func (c *Checker) downloadFile(ctx context.Context, url, path string) (string, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}
	sum, err := c.download(ctx, url, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return sum, err
}

func hexSum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// parseChecksums reads sha256sum output. A leading '*' on the name (binary
// mode) is ignored; malformed lines are skipped.
func parseChecksums(data []byte) map[string]string {
	out := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		out[strings.TrimPrefix(fields[1], "*")] = strings.ToLower(fields[0])
	}
	return out
}

// extractBinary writes the executable found in the archive at src to dst.
func extractBinary(src, dst string) error {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o700)
	if err != nil {
		return err
	}
	if strings.HasSuffix(src, ".zip") {
		err = copyFromZip(src, binaryName+".exe", out)
	} else {
		err = copyFromTarGz(src, binaryName, out)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func copyFromTarGz(src, name string, w io.Writer) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("binary %q not found in archive", name)
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			_, err := io.Copy(w, io.LimitReader(tr, maxAssetSize))
			return err
		}
	}
}

func copyFromZip(src, name string, w io.Writer) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer func() { _ = rc.Close() }()
		_, err = io.Copy(w, io.LimitReader(rc, maxAssetSize))
		return err
	}
	return fmt.Errorf("binary %q not found in archive", name)
}

// install gives staged the target's permissions and renames it over target.
// staged must be on the same filesystem as target.
func install(staged, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}
	if err := os.Chmod(staged, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(staged, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
