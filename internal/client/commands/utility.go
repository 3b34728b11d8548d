package commands

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chessrelay/internal/client/display"
)

// clearScreen moves the cursor home and erases the display
const clearScreen = "\x1b[H\x1b[2J"

var rawMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

func (r *Registry) registerUtilityCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Report server status and storage mode",
		Usage:       "health",
		Handler:     healthHandler,
	})

	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Show or change the server address",
		Usage:       "url [host:port | http(s)://host:port]",
		Handler:     urlHandler,
	})

	r.Register(&Command{
		Name:        "raw",
		ShortName:   ":",
		Description: "Send a request straight to the HTTP API",
		Usage:       "raw <GET|POST|PUT|DELETE> <path> [json-body]",
		Handler:     rawRequestHandler,
	})

	r.Register(&Command{
		Name:        "clear",
		ShortName:   "-",
		Description: "Wipe the terminal",
		Usage:       "clear",
		Handler:     clearHandler,
	})
}

func healthHandler(s Session, args []string) error {
	resp, err := s.GetClient().Health()
	if err != nil {
		return fmt.Errorf("server unreachable at %s: %w", s.GetAPIBaseURL(), err)
	}

	status := display.Green(resp.Status)
	if resp.Status != "healthy" {
		status = display.Yellow(resp.Status)
	}
	storage := resp.Storage
	switch storage {
	case "":
		storage = "unreported"
	case "ok":
		storage = display.Green(storage)
	case "degraded":
		storage = display.Red(storage)
	}

	s.Printf("%s %s\n", display.Cyan(s.GetAPIBaseURL()), status)
	s.Printf("  storage %s, server clock %s\n",
		storage, time.Unix(resp.Time, 0).Format(time.TimeOnly))
	return nil
}

func urlHandler(s Session, args []string) error {
	if len(args) == 0 {
		s.Printf("Server: %s\n", s.GetAPIBaseURL())
		return nil
	}

	addr, err := normalizeBaseURL(args[0])
	if err != nil {
		return err
	}
	s.SetAPIBaseURL(addr)
	s.Printf("%s\n", display.Cyan("Server set to "+addr))
	return nil
}

// normalizeBaseURL accepts a bare host:port or a full http(s) URL and
// returns it without a trailing slash
func normalizeBaseURL(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("bad server address: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server address %q has no host", raw)
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

func rawRequestHandler(s Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <GET|POST|PUT|DELETE> <path> [json-body]")
	}

	method := strings.ToUpper(args[0])
	if !rawMethods[method] {
		return fmt.Errorf("unsupported method %s", method)
	}
	path := args[1]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return s.GetClient().RawRequest(method, path, strings.Join(args[2:], " "))
}

func clearHandler(s Session, args []string) error {
	_, err := fmt.Fprint(s.Out(), clearScreen)
	return err
}
