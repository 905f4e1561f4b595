//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const sheetPort = "8080/tcp"

// startSheetStub starts the CSV stub and returns its base URL.
func startSheetStub(t *testing.T, ctx context.Context, networks ...string) (testcontainers.Container, string) {
	t.Helper()

	repoRoot := mustRepoRoot(t)

	req := testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context:    filepath.Join(repoRoot, "test/integration/sheetstub"),
			Dockerfile: "Dockerfile",
		},
		ExposedPorts: []string{sheetPort},
		Env:          map[string]string{"SHEET_TZ": "UTC"},
		WaitingFor:   wait.ForHTTP("/healthz").WithPort(sheetPort).WithStartupTimeout(90 * time.Second),
	}
	if len(networks) > 0 {
		req.Networks = networks
		req.NetworkAliases = map[string][]string{networks[0]: {"sheet"}}
	}

	sheet, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start sheet container: %v", err)
	}
	t.Cleanup(func() { _ = sheet.Terminate(ctx) })

	baseURL := mustBaseURL(t, ctx, sheet, sheetPort)
	t.Logf("sheet stub running at %s", baseURL)
	return sheet, baseURL
}

func mustHTTPGet(t *testing.T, ctx context.Context, url string) string {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http get: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("http status=%d body=%s", resp.StatusCode, string(b))
	}
	return string(b)
}

func mustBaseURL(t *testing.T, ctx context.Context, c testcontainers.Container, port string) string {
	t.Helper()
	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("http://%s:%s", host, mapped.Port())
}

func mustContain(t *testing.T, body, substr string) {
	t.Helper()
	if !strings.Contains(body, substr) {
		snippet := body
		if len(snippet) > 2000 {
			snippet = snippet[:2000]
		}
		t.Fatalf("expected body to contain %q; got prefix: %q", substr, snippet)
	}
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	d := wd
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil && !strings.Contains(d, "sheetstub") {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	t.Fatalf("could not locate repo root from %s", wd)
	return ""
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}
