package cloudshell_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/qualisystems/cloudshell-rest-go/cloudshell"
	"github.com/qualisystems/cloudshell-rest-go/cloudshell/cloudshelltest"
	"github.com/qualisystems/cloudshell-rest-go/httpclient"
)

func testConfig(s *cloudshelltest.Server) cloudshell.Config {
	return cloudshell.Config{
		Host:     s.Host(),
		Port:     s.Port(),
		Username: "admin",
		Password: "admin",
	}
}

func newTestClient(t *testing.T) (*cloudshelltest.Server, *cloudshell.Client) {
	t.Helper()
	srv := cloudshelltest.NewServer()
	t.Cleanup(srv.Close)

	client, err := cloudshell.Login(context.Background(), testConfig(srv))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	t.Cleanup(client.Close)
	return srv, client
}

func writeShellPackage(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLogin_StoresToken(t *testing.T) {
	srv, client := newTestClient(t)

	if client.Token() == "" {
		t.Fatal("expected a non-empty token")
	}
	if client.Token() != srv.Token() {
		t.Errorf("token = %q, want %q (quotes must be stripped)", client.Token(), srv.Token())
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := cloudshelltest.NewServer()
	defer srv.Close()

	cfg := testConfig(srv)
	cfg.Password = "wrong"

	_, err := cloudshell.Login(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !cloudshell.IsAuthentication(err) {
		t.Errorf("expected authentication error, got %v", err)
	}
	var apiErr *cloudshell.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
		t.Errorf("expected HTTP 401 on the error, got %v", err)
	}
	if apiErr != nil && apiErr.Message == "" {
		t.Error("expected the server message to be carried")
	}
}

func TestLogin_InvalidConfig(t *testing.T) {
	_, err := cloudshell.Login(context.Background(), cloudshell.Config{})
	if err == nil {
		t.Fatal("expected validation error for missing host")
	}
}

func TestLogin_ConnectionRefused(t *testing.T) {
	cfg := cloudshell.Config{Host: "127.0.0.1", Port: 1, Username: "admin", Password: "admin"}
	_, err := cloudshell.Login(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	// Transport failures propagate from the HTTP layer unchanged.
	if !httpclient.IsConnection(err) {
		t.Errorf("expected connection error, got %v", err)
	}
}

func TestNew_RequiresToken(t *testing.T) {
	if _, err := cloudshell.New(cloudshell.Config{Host: "h"}, ""); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestNew_WithExistingToken(t *testing.T) {
	srv := cloudshelltest.NewServer()
	defer srv.Close()
	srv.AddStandard(cloudshell.StandardInfo{StandardName: "X", Versions: []string{"1.0"}})

	client, err := cloudshell.New(testConfig(srv), srv.Token())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	standards, err := client.GetInstalledStandards(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(standards) != 1 {
		t.Errorf("expected 1 standard, got %d", len(standards))
	}
}

func TestAddShell_ThenGetShell_RoundTrip(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	content := []byte("PK\x03\x04 fake zip payload")
	path := writeShellPackage(t, "NutShell.zip", content)

	if err := client.AddShell(ctx, path); err != nil {
		t.Fatalf("add shell: %v", err)
	}

	got, err := client.GetShell(ctx, "NutShell")
	if err != nil {
		t.Fatalf("get shell: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("round-trip content mismatch: %q", got)
	}
}

func TestAddShell_Duplicate(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()
	srv.SetShell("NutShell", []byte("old"))

	path := writeShellPackage(t, "NutShell.zip", []byte("new"))
	err := client.AddShell(ctx, path)
	if err == nil {
		t.Fatal("expected error for duplicate shell")
	}
	if !cloudshell.IsShellUpload(err) {
		t.Errorf("expected shell-upload error, got %v", err)
	}
}

func TestAddShell_MissingFile(t *testing.T) {
	_, client := newTestClient(t)
	if err := client.AddShell(context.Background(), "no/such/file.zip"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestUpdateShell_DerivesNameFromFile(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()
	srv.SetShell("NutShell", []byte("v1"))

	path := writeShellPackage(t, "NutShell.zip", []byte("v2"))
	if err := client.UpdateShell(ctx, path, ""); err != nil {
		t.Fatalf("update shell: %v", err)
	}

	got, _ := srv.Shell("NutShell")
	if string(got) != "v2" {
		t.Errorf("shell content = %q, want v2", got)
	}
}

func TestUpdateShell_ExplicitName(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()
	srv.SetShell("RouterShell", []byte("v1"))

	path := writeShellPackage(t, "build-output.zip", []byte("v2"))
	if err := client.UpdateShell(ctx, path, "RouterShell"); err != nil {
		t.Fatalf("update shell: %v", err)
	}

	got, _ := srv.Shell("RouterShell")
	if string(got) != "v2" {
		t.Errorf("shell content = %q, want v2", got)
	}
}

func TestUpdateShell_NotFound(t *testing.T) {
	_, client := newTestClient(t)

	path := writeShellPackage(t, "GhostShell.zip", []byte("x"))
	err := client.UpdateShell(context.Background(), path, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !cloudshell.IsShellNotFound(err) {
		t.Errorf("expected shell-not-found error, got %v", err)
	}
}

func TestDeleteShell(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()
	srv.SetShell("NutShell", []byte("content"))

	if err := client.DeleteShell(ctx, "NutShell"); err != nil {
		t.Fatalf("delete shell: %v", err)
	}
	if _, exists := srv.Shell("NutShell"); exists {
		t.Error("shell should be gone")
	}
}

func TestDeleteShell_UnknownThenGet(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	err := client.DeleteShell(ctx, "GhostShell")
	if err == nil {
		t.Fatal("expected error")
	}
	if !cloudshell.IsShellDelete(err) {
		t.Errorf("expected shell-delete error, got %v", err)
	}

	_, err = client.GetShell(ctx, "GhostShell")
	if !cloudshell.IsShellNotFound(err) {
		t.Errorf("expected shell-not-found error, got %v", err)
	}
}

func TestDeleteShell_LegacyServer(t *testing.T) {
	srv, client := newTestClient(t)
	srv.SetLegacy(true)

	err := client.DeleteShell(context.Background(), "NutShell")
	if !cloudshell.IsFeatureUnavailable(err) {
		t.Errorf("expected feature-unavailable error, got %v", err)
	}
}

func TestGetShellInfo(t *testing.T) {
	srv, client := newTestClient(t)
	srv.SetShell("NutShell", []byte("content"))

	info, err := client.GetShellInfo(context.Background(), "NutShell")
	if err != nil {
		t.Fatalf("get shell info: %v", err)
	}
	if info.Name != "NutShell" {
		t.Errorf("name = %q", info.Name)
	}
	if info.LastModifiedByUser.Username != "admin" {
		t.Errorf("last modified by = %q", info.LastModifiedByUser.Username)
	}
}

func TestGetShellInfo_StatusHeuristics(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()

	// Unknown shell: the server answers 400.
	_, err := client.GetShellInfo(ctx, "GhostShell")
	if !cloudshell.IsShellNotFound(err) {
		t.Errorf("expected shell-not-found for 400, got %v", err)
	}

	// Old server: the endpoint itself answers 404.
	srv.SetLegacy(true)
	_, err = client.GetShellInfo(ctx, "GhostShell")
	if !cloudshell.IsFeatureUnavailable(err) {
		t.Errorf("expected feature-unavailable for 404, got %v", err)
	}
}

func TestGetInstalledStandards(t *testing.T) {
	srv, client := newTestClient(t)
	srv.AddStandard(cloudshell.StandardInfo{
		StandardName: "cloudshell_networking_standard",
		Versions:     []string{"5.0.0", "5.0.1"},
	})

	standards, err := client.GetInstalledStandards(context.Background())
	if err != nil {
		t.Fatalf("get standards: %v", err)
	}
	if len(standards) != 1 {
		t.Fatalf("expected 1 standard, got %d", len(standards))
	}
	if standards[0].StandardName != "cloudshell_networking_standard" {
		t.Errorf("name = %q", standards[0].StandardName)
	}
	if len(standards[0].Versions) != 2 || standards[0].Versions[0] != "5.0.0" {
		t.Errorf("versions = %v", standards[0].Versions)
	}
}

func TestGetInstalledStandards_LegacyServer(t *testing.T) {
	srv, client := newTestClient(t)
	srv.SetLegacy(true)

	_, err := client.GetInstalledStandards(context.Background())
	if !cloudshell.IsFeatureUnavailable(err) {
		t.Errorf("expected feature-unavailable error, got %v", err)
	}
}

func TestImportExportPackage_RoundTrip(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	content := []byte("PK\x03\x04 package payload")
	path := writeShellPackage(t, "Environment.zip", content)

	if err := client.ImportPackage(ctx, path); err != nil {
		t.Fatalf("import package: %v", err)
	}

	got, err := client.ExportPackage(ctx, "Environment")
	if err != nil {
		t.Fatalf("export package: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("round-trip content mismatch: %q", got)
	}
}

func TestExportPackage_NotFound(t *testing.T) {
	_, client := newTestClient(t)

	_, err := client.ExportPackage(context.Background(), "Ghost")
	if !cloudshell.IsPackageNotFound(err) {
		t.Errorf("expected package-not-found error, got %v", err)
	}
}

func TestExportPackageToFile(t *testing.T) {
	srv, client := newTestClient(t)
	content := []byte("exported bytes")
	srv.SetPackage("Environment", content)

	dest := filepath.Join(t.TempDir(), "out.zip")
	if err := client.ExportPackageToFile(context.Background(), "Environment", dest); err != nil {
		t.Fatalf("export to file: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("file content mismatch: %q", got)
	}
}

func TestImportPackage_LegacyServer(t *testing.T) {
	srv, client := newTestClient(t)
	srv.SetLegacy(true)

	path := writeShellPackage(t, "Environment.zip", []byte("x"))
	err := client.ImportPackage(context.Background(), path)
	if !cloudshell.IsFeatureUnavailable(err) {
		t.Errorf("expected feature-unavailable error, got %v", err)
	}
}

func TestClient_ConcurrentCalls(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()
	srv.AddStandard(cloudshell.StandardInfo{StandardName: "X", Versions: []string{"1.0"}})

	const workers = 16
	for i := 0; i < workers; i++ {
		srv.SetShell(fmt.Sprintf("Shell%d", i), []byte(fmt.Sprintf("content-%d", i)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			got, err := client.GetShell(ctx, fmt.Sprintf("Shell%d", i))
			if err != nil {
				errs <- err
				return
			}
			if string(got) != fmt.Sprintf("content-%d", i) {
				errs <- fmt.Errorf("shell %d: cross-call corruption: %q", i, got)
				return
			}
			if _, err := client.GetInstalledStandards(ctx); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent call failed: %v", err)
	}
}
