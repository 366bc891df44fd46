package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"precisely/cmd"
	"precisely/internal/api"
	"precisely/internal/geo"
	"precisely/internal/store"
	"precisely/internal/ui"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	config, err := cmd.ParseFlags(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	localStore, err := store.Open(config.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open local database: %v\n", err)
		os.Exit(1)
	}
	defer localStore.Close()

	apiClient := api.New(config.APIURL)
	geoClient := geo.NewClient("precisely/"+version, config.Language)

	p := tea.NewProgram(ui.New(apiClient, geoClient, localStore), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
