// Package api is the HTTP client for the music backend. It resolves the
// playable music URL by requesting the backend's fixed /music endpoint.
package api
