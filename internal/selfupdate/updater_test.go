package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"darwin", "arm64", "sensei_darwin_arm64.tar.gz"},
		{"darwin", "amd64", "sensei_darwin_amd64.tar.gz"},
		{"linux", "amd64", "sensei_linux_amd64.tar.gz"},
		{"linux", "arm64", "sensei_linux_arm64.tar.gz"},
		{"windows", "amd64", "sensei_windows_amd64.zip"},
		{"windows", "arm64", "sensei_windows_arm64.zip"},
	}
	for _, tt := range tests {
		got, err := assetNameFor(tt.goos, tt.goarch)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	for _, p := range [][2]string{{"freebsd", "amd64"}, {"linux", "386"}, {"linux", "mips"}} {
		_, err := assetNameFor(p[0], p[1])
		assert.ErrorIs(t, err, ErrUnsupportedPlatform, "%s/%s", p[0], p[1])
	}
}

func TestParseChecksums(t *testing.T) {
	got := parseChecksums([]byte("ABC123  sensei_linux_amd64.tar.gz\n" +
		"def456 *sensei_windows_amd64.zip\n" +
		"\n" +
		"malformed line with too many fields\n" +
		"onlyhash\n"))
	assert.Equal(t, map[string]string{
		"sensei_linux_amd64.tar.gz": "abc123",
		"sensei_windows_amd64.zip":  "def456",
	}, got)

	assert.Empty(t, parseChecksums(nil))
}

func TestDownloadHashesAndCaps(t *testing.T) {
	body := []byte("release bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(body)
	}))
	defer server.Close()

	c := NewChecker()
	path := filepath.Join(t.TempDir(), "asset")
	sum, err := c.downloadFile(context.Background(), server.URL+"/asset", path)
	require.NoError(t, err)
	want := sha256.Sum256(body)
	assert.Equal(t, hex.EncodeToString(want[:]), sum)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, written)

	_, err = c.download(context.Background(), server.URL+"/missing", &bytes.Buffer{})
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestExtractBinary(t *testing.T) {
	dir := t.TempDir()

	tgz := filepath.Join(dir, "sensei_linux_amd64.tar.gz")
	require.NoError(t, os.WriteFile(tgz, buildTarGz(t, "sensei_1.0/sensei", []byte("elf")), 0o644))
	out := filepath.Join(dir, "from-tar")
	require.NoError(t, extractBinary(tgz, out))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "elf", string(got))

	zipPath := filepath.Join(dir, "sensei_windows_amd64.zip")
	require.NoError(t, os.WriteFile(zipPath, buildZip(t, "sensei.exe", []byte("pe")), 0o644))
	out = filepath.Join(dir, "from-zip")
	require.NoError(t, extractBinary(zipPath, out))
	got, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "pe", string(got))

	wrong := filepath.Join(dir, "wrong.tar.gz")
	require.NoError(t, os.WriteFile(wrong, buildTarGz(t, "README.md", []byte("docs")), 0o644))
	assert.ErrorContains(t, extractBinary(wrong, filepath.Join(dir, "x")), "not found")
}

func TestInstallKeepsMode(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sensei")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))
	staged := filepath.Join(dir, "staged")
	require.NoError(t, os.WriteFile(staged, []byte("new"), 0o600))

	require.NoError(t, install(staged, target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.NoFileExists(t, staged)
}

// releaseServer serves a latest-release document and the assets of tag.
func releaseServer(t *testing.T, tag string, assets map[string][]byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/abhisek/sensei/releases/latest" {
			_, _ = fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, tag, tag)
			return
		}
		prefix := "/abhisek/sensei/releases/download/" + tag + "/"
		if len(r.URL.Path) > len(prefix) && r.URL.Path[:len(prefix)] == prefix {
			if b, ok := assets[r.URL.Path[len(prefix):]]; ok {
				_, _ = w.Write(b)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func currentAsset(t *testing.T, content []byte) (string, []byte) {
	t.Helper()
	asset, err := assetNameFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("no release build for %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	if runtime.GOOS == "windows" {
		return asset, buildZip(t, "sensei.exe", content)
	}
	return asset, buildTarGz(t, "sensei", content)
}

func TestUpdate(t *testing.T) {
	binaryContent := []byte("new-sensei-binary")
	asset, archive := currentAsset(t, binaryContent)
	archiveHash := sha256.Sum256(archive)
	checksums := []byte(fmt.Sprintf("%s  %s\n", hex.EncodeToString(archiveHash[:]), asset))

	newChecker := func(server *httptest.Server, execPath string) *Checker {
		return NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)
	}
	oldBinary := func(t *testing.T) string {
		p := filepath.Join(t.TempDir(), "sensei")
		require.NoError(t, os.WriteFile(p, []byte("old"), 0o755))
		return p
	}

	t.Run("happy path", func(t *testing.T) {
		execPath := oldBinary(t)
		server := releaseServer(t, "v2.0.0", map[string][]byte{asset: archive, "checksums.txt": checksums})

		var stages []Stage
		err := newChecker(server, execPath).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, binaryContent, got)
		assert.Equal(t, []Stage{StageCheck, StageDownload, StageVerify, StageExtract, StageApply, StageDone}, stages)

		// The work dir next to the binary is gone.
		entries, err := os.ReadDir(filepath.Dir(execPath))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("pinned version skips the check", func(t *testing.T) {
		execPath := oldBinary(t)
		server := releaseServer(t, "v1.5.0", map[string][]byte{asset: archive, "checksums.txt": checksums})

		var stages []Stage
		err := newChecker(server, execPath).Update(context.Background(),
			&UpdateInput{CurrentVersion: "v2.0.0", TargetVersion: "v1.5.0"},
			func(p UpdateProgress) { stages = append(stages, p.Stage) })
		require.NoError(t, err)
		assert.NotContains(t, stages, StageCheck)
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		server := releaseServer(t, "v1.0.0", nil)
		err := newChecker(server, oldBinary(t)).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		execPath := oldBinary(t)
		bad := []byte(fmt.Sprintf("%064d  %s\n", 0, asset))
		server := releaseServer(t, "v2.0.0", map[string][]byte{asset: archive, "checksums.txt": bad})

		err := newChecker(server, execPath).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, "old", string(got))
	})

	t.Run("asset not listed", func(t *testing.T) {
		server := releaseServer(t, "v2.0.0", map[string][]byte{asset: archive, "checksums.txt": []byte("abc other.tar.gz\n")})
		err := newChecker(server, oldBinary(t)).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("download failure", func(t *testing.T) {
		server := releaseServer(t, "v2.0.0", map[string][]byte{"checksums.txt": checksums})
		err := newChecker(server, oldBinary(t)).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

// buildTarGz creates a tar.gz archive containing a single file.
func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Size:     int64(len(content)),
		Mode:     0o755,
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

// buildZip creates a zip archive containing a single file.
func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"v1.2.0", "v1.1.9", true},
		{"1.2.0", "v1.2.0", false},
		{"v1.2.0", "1.3.0", false},
		{"v2.0.0-rc.1", "v1.9.0", true},
		{"v2.0.0", "v2.0.0-rc.1", true},
		{"garbage", "v1.0.0", false},
		{"v1.0.0", "(devel)", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, newer(tt.latest, tt.current), "%s vs %s", tt.latest, tt.current)
	}
}

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/abhisek/sensei/releases/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"tag_name":"v1.4.0","html_url":"https://example.com/v1.4.0"}`))
	}))
	defer server.Close()

	res, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.3.2"})
	require.NoError(t, err)
	assert.True(t, res.UpdateAvailable)
	assert.Equal(t, "v1.4.0", res.LatestVersion)
	assert.Equal(t, "https://example.com/v1.4.0", res.ReleaseURL)
}

func TestCheck_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	assert.ErrorContains(t, err, "403")
}
