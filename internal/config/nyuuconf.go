package config

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// DumpFailedPosts reads the poster's own JSON configuration and returns the
// directory it dumps failed raw articles into. Raw recovery cannot work
// without it, so a missing file or key is a configuration error.
func DumpFailedPosts(nyuuConfig string) (string, error) {
	data, err := os.ReadFile(nyuuConfig)
	if err != nil {
		return "", fmt.Errorf("reading poster config: %w", err)
	}

	v := gjson.GetBytes(data, "dump-failed-posts")
	if !v.Exists() || v.String() == "" {
		return "", fmt.Errorf("dump-failed-posts is not set in %s", nyuuConfig)
	}

	return v.String(), nil
}
