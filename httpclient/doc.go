// Package httpclient provides a small configurable HTTP client with base-URL
// resolution, authentication, multipart upload, optional retry, and
// classification of non-2xx responses into typed errors.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:9000/Api",
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/Standards",
//	})
//
// Domain-specific clients (package cloudshell) build on this layer.
package httpclient
