package auth

// Well-known storage keys for the session token pair
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Storage is a small persistent key/value store, modelled on browser
// local storage. Get returns "" for a missing key.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}
