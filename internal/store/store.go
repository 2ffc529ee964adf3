// Package store persists the session credentials: access token, refresh
// token, and the cached user profile snapshot. The three entries are
// independent string values; every write fully replaces the prior value.
package store

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserSnapshot = "user_snapshot"
)
