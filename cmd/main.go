// FilePath: cmd/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	nuts "github.com/vaudience/go-nuts"

	"github.com/vigilaire/hub/internal/config"
	"github.com/vigilaire/hub/internal/server"
)

func main() {
	seed := flag.Bool("seed", false, "load demo sensors and readings, then exit")
	flag.Parse()

	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting VigilAire Hub v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv := server.New(cfg)

	if *seed {
		if err := srv.Seed(context.Background()); err != nil {
			nuts.L.Errorf("[Main] Seeding failed: %v", err)
			os.Exit(1)
		}
		nuts.L.Infof("[Main] Seeding complete")
		return
	}

	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		" _    ___       _ __   ___    _         ",
		"| |  / (_)___ _(_) /  /   |  (_)_______ ",
		"| | / / / __ `/ / /  / /| | / / ___/ _ \\",
		"| |/ / / /_/ / / /  / ___ |/ / /  /  __/",
		"|___/_/\\__, /_/_/  /_/  |_/_/_/   \\___/ ",
		"      /____/............................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
