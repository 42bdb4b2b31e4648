package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to pixlet! Let's set up your start page.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Search engine.
	items := make([]string, len(SearchEngines))
	for i, e := range SearchEngines {
		items[i] = fmt.Sprintf("%-10s %s", e.Name, e.SearchURL)
	}
	enginePrompt := promptui.Select{
		Label: "Select search engine",
		Items: items,
	}
	idx, _, err := enginePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("search engine selection: %w", err)
	}
	engine := SearchEngines[idx]
	cfg.SearchURL = engine.SearchURL

	// 2. Home page.
	homePrompt := promptui.Prompt{
		Label:    "Home page URL",
		Default:  cfg.HomeURL,
		Validate: validateHomeURL,
	}
	home, err := homePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("home url: %w", err)
	}
	cfg.HomeURL = strings.TrimSpace(home)
	cfg.AllowedHosts = allowedHostsFor(cfg.HomeURL, engine)

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:    "Port for pixlet serve",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 4. Auto-open.
	autoPrompt := promptui.Prompt{
		Label:     "Open the home page automatically when the start page loads",
		IsConfirm: true,
	}
	if _, err := autoPrompt.Run(); err == nil {
		cfg.AutoOpenHome = true
	} else if !errors.Is(err, promptui.ErrAbort) {
		return nil, fmt.Errorf("auto-open: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateHomeURL(s string) error {
	cfg := DefaultConfig()
	cfg.HomeURL = strings.TrimSpace(s)
	cfg.AllowedHosts = nil
	return cfg.Validate()
}

func validatePort(s string) error {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if p <= 0 || p > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

// allowedHostsFor builds an allowlist covering the home page and the
// chosen search engine.
func allowedHostsFor(homeURL string, engine SearchEngine) []string {
	hosts := []string{}
	if h := hostOf(homeURL); h != "" {
		hosts = append(hosts, h)
	}
	for _, h := range engine.Hosts {
		if h != "" && !slices.Contains(hosts, h) {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
