package store

import "context"

// Preference keys shared with the plan data in the same KV.
const (
	KeyAuthToken = "authToken"
	KeyTheme     = "theme"
)

// Theme returns the persisted UI theme, "dark" when unset.
func Theme(ctx context.Context, kv KV) (string, error) {
	var theme string
	ok, err := GetJSON(ctx, kv, KeyTheme, &theme)
	if err != nil {
		return "", err
	}
	if !ok || theme == "" {
		return "dark", nil
	}
	return theme, nil
}

// SetTheme persists the UI theme.
func SetTheme(ctx context.Context, kv KV, theme string) error {
	return PutJSON(ctx, kv, KeyTheme, theme)
}

// AuthToken returns the stored bearer token, or "" when none is set.
func AuthToken(ctx context.Context, kv KV) (string, error) {
	var token string
	if _, err := GetJSON(ctx, kv, KeyAuthToken, &token); err != nil {
		return "", err
	}
	return token, nil
}

// SetAuthToken stores token; an empty token clears it.
func SetAuthToken(ctx context.Context, kv KV, token string) error {
	if token == "" {
		return kv.Delete(ctx, KeyAuthToken)
	}
	return PutJSON(ctx, kv, KeyAuthToken, token)
}
