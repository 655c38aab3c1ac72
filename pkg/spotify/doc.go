// Package spotify provides a client library for the Spotify Web API.
//
// # Overview
//
// This package implements a small Go client for the Spotify Web API,
// focusing on the authorization-code OAuth flow and the recently-played
// history endpoint. It provides a clean, type-safe API with context
// support, structured errors, and automatic token refresh.
//
// # Installation
//
//	go get github.com/jfmyers9/spins/pkg/spotify
//
// # Quick Start
//
// First, create a client with your application credentials:
//
//	import "github.com/jfmyers9/spins/pkg/spotify"
//
//	client, err := spotify.NewClient(spotify.Config{
//	    ClientID:     "your-client-id",
//	    ClientSecret: "your-client-secret",
//	    RedirectURI:  "http://127.0.0.1:8080/callback",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Authorization
//
// Spotify uses the OAuth2 authorization-code grant:
//
//  1. Direct the user to the authorization URL
//  2. The user approves and Spotify redirects with a code
//  3. Exchange the code for an access/refresh token pair
//  4. Store and reuse the token
//
// Example:
//
//	// Step 1: user approves
//	fmt.Println("Please visit:", client.Auth().AuthCodeURL(state))
//
//	// Step 2-3: exchange the code from the redirect URL
//	token, err := client.Auth().Exchange(ctx, code)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Step 4: install and persist the token
//	client.SetToken(token)
//	client.OnTokenRefresh(func(t *oauth2.Token) {
//	    // persist t for future runs
//	})
//
// # Play History
//
// Once a token is set, pages of the recently-played listing can be
// fetched with a cursor:
//
//	page, err := client.History().RecentlyPlayed(ctx, spotify.RecentlyPlayedOptions{
//	    Limit: 50,
//	})
//
// The client refreshes an expired access token at most once per request
// (before the request when the expiry has passed, or after a 401) and
// honors 429 rate-limit responses via the Retry-After header.
//
// # Error Handling
//
// API failures are returned as structured errors:
//
//	page, err := client.History().RecentlyPlayed(ctx, opts)
//	if err != nil {
//	    var apiErr *spotify.Error
//	    if errors.As(err, &apiErr) {
//	        fmt.Println("status:", apiErr.Status)
//	    }
//	}
//
// # Spotify API Documentation
//
// For more information about the Web API:
// https://developer.spotify.com/documentation/web-api
package spotify
