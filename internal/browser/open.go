// Package browser hands links off to the system browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedURL is returned for anything other than an absolute
// http or https URL.
var ErrUnsupportedURL = errors.New("only http and https links can be opened")

// start launches a command without waiting for it. Tests replace it.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens the specified URL in the user's default browser.
func Open(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser.Open %q: %w", raw, ErrUnsupportedURL)
	}
	link := u.String()

	switch runtime.GOOS {
	case "darwin":
		return start("open", link)
	case "linux", "freebsd", "openbsd":
		return start("xdg-open", link)
	case "windows":
		return start("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
