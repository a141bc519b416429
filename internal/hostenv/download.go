package hostenv

import (
	"context"
	"fmt"
	"os"

	"resty.dev/v3"
)

// download fetches url into dest with executable permissions. Used for the
// vswhere locator, which is a plain unauthenticated release download.
func download(ctx context.Context, url, dest string) error {
	client := resty.New()
	defer client.Close()

	res, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("GET %s: unexpected status %s", url, res.Status())
	}
	return os.WriteFile(dest, res.Bytes(), 0o755)
}
