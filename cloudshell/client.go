package cloudshell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qualisystems/cloudshell-rest-go/httpclient"
	"github.com/qualisystems/cloudshell-rest-go/logger"
	"github.com/qualisystems/cloudshell-rest-go/version"
)

// Client talks to the CloudShell packaging REST API.
// It is safe for concurrent use.
type Client struct {
	http  *httpclient.Client
	token string
	auth  *httpclient.AuthConfig
	log   *logger.Logger
}

// loginRequest is the credentials body sent to Auth/Login.
type loginRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
	Domain   string `json:"Domain"`
}

// Login authenticates against the server and returns a ready client.
// The obtained token is kept for the client's lifetime; it is never
// refreshed. Any non-2xx login response yields an authentication error
// carrying the server's message.
func Login(ctx context.Context, cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, "login", httpclient.Request{
		Method: http.MethodPost,
		Path:   "/Auth/Login",
		Body:   loginRequest{Username: cfg.Username, Password: cfg.Password, Domain: cfg.Domain},
		Auth:   &httpclient.AuthConfig{Type: httpclient.AuthNone},
	})
	if err != nil {
		var he *httpclient.Error
		if errors.As(err, &he) && he.StatusCode > 0 {
			return nil, newAPIError(CodeAuthentication, he)
		}
		return nil, err
	}

	// The server returns the token as quoted text.
	token := strings.Trim(strings.TrimSpace(string(resp.Body)), `'"`)
	if token == "" {
		return nil, &Error{Code: CodeAuthentication, StatusCode: resp.StatusCode, Message: "server returned an empty token"}
	}

	c.setToken(token)
	c.log.Debug("logged in", logger.Fields(
		logger.FieldHost, cfg.Host,
		"domain", cfg.Domain,
		"token", maskToken(token),
	))
	return c, nil
}

// New returns a client that uses an already-obtained token.
func New(cfg Config, token string) (*Client, error) {
	if token == "" {
		return nil, &Error{Code: CodeAuthentication, Message: "token must not be empty"}
	}
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	c.setToken(token)
	return c, nil
}

func newClient(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.apiURL(),
		Timeout: cfg.Timeout,
		Retry:   cfg.Retry,
		Headers: map[string]string{"User-Agent": version.UserAgent()},
	})
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		http: hc,
		log:  log.WithComponent("cloudshell"),
	}, nil
}

func (c *Client) setToken(token string) {
	c.token = token
	c.auth = httpclient.BearerAuth(token)
}

// Token returns the session token obtained at login.
func (c *Client) Token() string {
	return c.token
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.Close()
}

// AddShell uploads a new shell package from a file. The server rejects
// duplicates and invalid packages with a shell-upload error.
func (c *Client) AddShell(ctx context.Context, shellPath string) error {
	f, err := os.Open(shellPath)
	if err != nil {
		return fmt.Errorf("cloudshell: open shell package: %w", err)
	}
	defer f.Close()
	return c.AddShellFromReader(ctx, filepath.Base(shellPath), f)
}

// AddShellFromReader uploads a new shell package from a stream.
func (c *Client) AddShellFromReader(ctx context.Context, fileName string, r io.Reader) error {
	_, err := c.do(ctx, "add shell", httpclient.Request{
		Method: http.MethodPost,
		Path:   "/Shells",
		Body:   httpclient.FileUpload("file", fileName, r),
	})
	return mapError(err, nil, CodeShellUpload)
}

// UpdateShell replaces an existing shell with the package at shellPath.
// An empty shellName derives the name from the file's base name, so
// "work/NutShell.zip" updates the shell "NutShell".
func (c *Client) UpdateShell(ctx context.Context, shellPath, shellName string) error {
	if shellName == "" {
		shellName = shellNameFromPath(shellPath)
	}
	f, err := os.Open(shellPath)
	if err != nil {
		return fmt.Errorf("cloudshell: open shell package: %w", err)
	}
	defer f.Close()
	return c.UpdateShellFromReader(ctx, shellName, filepath.Base(shellPath), f)
}

// UpdateShellFromReader replaces the named shell with a package stream.
func (c *Client) UpdateShellFromReader(ctx context.Context, shellName, fileName string, r io.Reader) error {
	_, err := c.do(ctx, "update shell", httpclient.Request{
		Method: http.MethodPut,
		Path:   "/Shells/" + shellName,
		Body:   httpclient.FileUpload("file", fileName, r),
	})
	return mapError(err, statusMap{404: CodeShellNotFound}, CodeShellUpdate)
}

// DeleteShell removes the named shell. A 404 means the server predates
// the delete endpoint; the server answers 400 for unknown shells.
func (c *Client) DeleteShell(ctx context.Context, shellName string) error {
	_, err := c.do(ctx, "delete shell", httpclient.Request{
		Method: http.MethodDelete,
		Path:   "/Shells/" + shellName,
	})
	return mapError(err, statusMap{404: CodeFeatureUnavailable}, CodeShellDelete)
}

// GetShell downloads the named shell's package content.
func (c *Client) GetShell(ctx context.Context, shellName string) ([]byte, error) {
	resp, err := c.do(ctx, "get shell", httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/Shells/" + shellName,
		Headers: map[string]string{"Accept": "application/octet-stream"},
	})
	if err != nil {
		return nil, mapError(err, statusMap{404: CodeShellNotFound}, CodeAPI)
	}
	return resp.Body, nil
}

// GetShellInfo fetches the metadata of an installed shell. Old servers
// answer 404 for the endpoint itself and 400 for an unknown shell.
func (c *Client) GetShellInfo(ctx context.Context, shellName string) (*ShellInfo, error) {
	resp, err := c.do(ctx, "get shell info", httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/Shells/" + shellName,
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, mapError(err, statusMap{404: CodeFeatureUnavailable, 400: CodeShellNotFound}, CodeAPI)
	}

	var info ShellInfo
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		return nil, fmt.Errorf("cloudshell: decode shell info: %w", err)
	}
	return &info, nil
}

// GetInstalledStandards lists the standards installed on the platform.
// Servers below the minimum supported version answer 404.
func (c *Client) GetInstalledStandards(ctx context.Context) ([]StandardInfo, error) {
	resp, err := c.do(ctx, "get installed standards", httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/Standards",
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, mapError(err, statusMap{404: CodeFeatureUnavailable}, CodeAPI)
	}

	var standards []StandardInfo
	if err := json.Unmarshal(resp.Body, &standards); err != nil {
		return nil, fmt.Errorf("cloudshell: decode standards: %w", err)
	}
	return standards, nil
}

// ImportPackage uploads a deployable package (zip) from a file.
func (c *Client) ImportPackage(ctx context.Context, packagePath string) error {
	f, err := os.Open(packagePath)
	if err != nil {
		return fmt.Errorf("cloudshell: open package: %w", err)
	}
	defer f.Close()
	return c.ImportPackageFromReader(ctx, filepath.Base(packagePath), f)
}

// ImportPackageFromReader uploads a deployable package from a stream.
func (c *Client) ImportPackageFromReader(ctx context.Context, fileName string, r io.Reader) error {
	_, err := c.do(ctx, "import package", httpclient.Request{
		Method: http.MethodPost,
		Path:   "/Packages",
		Body:   httpclient.FileUpload("file", fileName, r),
	})
	return mapError(err, statusMap{404: CodeFeatureUnavailable}, CodePackageImport)
}

// ExportPackage downloads the named package's content.
func (c *Client) ExportPackage(ctx context.Context, packageName string) ([]byte, error) {
	resp, err := c.do(ctx, "export package", httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/Packages/" + packageName,
		Headers: map[string]string{"Accept": "application/octet-stream"},
	})
	if err != nil {
		return nil, mapError(err, statusMap{404: CodePackageNotFound}, CodeAPI)
	}
	return resp.Body, nil
}

// ExportPackageToFile downloads the named package and writes it to filePath.
func (c *Client) ExportPackageToFile(ctx context.Context, packageName, filePath string) error {
	data, err := c.ExportPackage(ctx, packageName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("cloudshell: write package file: %w", err)
	}
	return nil
}

// do sends one request with auth and a correlation id, logging the outcome.
func (c *Client) do(ctx context.Context, op string, req httpclient.Request) (*httpclient.Response, error) {
	requestID := uuid.NewString()
	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	req.Headers["X-Request-Id"] = requestID
	if req.Auth == nil {
		req.Auth = c.auth
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, req)

	fields := logger.Fields(
		logger.FieldOperation, op,
		logger.FieldRequestID, requestID,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)
	if resp != nil {
		fields[logger.FieldStatus] = resp.StatusCode
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
		c.log.Debug("request failed", fields)
		return resp, err
	}
	c.log.Debug("request completed", fields)
	return resp, nil
}

// shellNameFromPath derives a shell name from the package file name,
// dropping the final extension: "work/NutShell.zip" -> "NutShell".
func shellNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// maskToken hides most of a token for safe logging.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "***"
	}
	return token[:4] + "***"
}
