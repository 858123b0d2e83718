package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubtray/hubtray/internal/app"
	"github.com/hubtray/hubtray/internal/model"
)

// logPath returns where the TUI process writes its log. Stdout belongs to
// the terminal UI, so logging goes to a file.
func logPath() string {
	if p := os.Getenv("HUBTRAY_LOG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "hubtray.log")
	}
	return filepath.Join(home, ".cache", "hubtray", "hubtray.log")
}

func main() {
	lp := logPath()
	if err := os.MkdirAll(filepath.Dir(lp), 0o755); err == nil {
		if f, err := tea.LogToFile(lp, "hubtray"); err == nil {
			defer f.Close()
		}
	}

	cfgPath := model.DefaultConfigPath()
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	program := tea.NewProgram(
		app.New(cfg, cfgPath),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		log.Printf("program exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "hubtray: %v\n", err)
		os.Exit(1)
	}
}
