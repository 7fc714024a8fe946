// Package cloudshell is a client for the CloudShell packaging REST API.
//
// The client wraps the Shell and Package endpoints exposed by a CloudShell
// server: uploading, updating, deleting and exporting Shell packages, and
// querying the standards installed on the platform.
//
//	client, err := cloudshell.Login(ctx, cloudshell.Config{
//	    Host:     "cloudshell.example.com",
//	    Username: "admin",
//	    Password: "admin",
//	})
//	if err != nil {
//	    // cloudshell.IsAuthentication(err) on bad credentials
//	}
//	if err := client.AddShell(ctx, "shells/NutShell.zip"); err != nil {
//	    // cloudshell.IsShellUpload(err) when the server rejects the package
//	}
//
// A Client is safe for concurrent use: the token obtained at login is
// read-only for the client's lifetime and every call builds an independent
// request. The token is never refreshed; log in again when it expires.
package cloudshell
