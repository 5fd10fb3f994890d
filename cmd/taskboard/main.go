package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/session"
	"github.com/nhle/taskboard/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := openLogger(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger.Info().Msg("starting application...")

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating data directory: %v\n", err)
		os.Exit(1)
	}

	storage, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening board database: %v\n", err)
		os.Exit(1)
	}
	defer storage.Close()

	b := board.New(storage, &board.SystemIdentity{}, logger)
	gate := session.NewGate(storage, session.KeyringCredentials{}, cfg.Session.Username, logger)

	p := tea.NewProgram(app.New(b, gate, cfg, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger.Info().Msg("goodbye")
}

// openLogger writes structured logs next to the database; stdout belongs
// to the terminal UI.
func openLogger(dbPath string) (zerolog.Logger, *os.File, error) {
	logPath := filepath.Join(filepath.Dir(dbPath), "taskboard.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return zerolog.Logger{}, nil, err
	}

	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(0o666))
	if err != nil {
		return zerolog.Logger{}, nil, err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out: logFile, TimeFormat: "2006-01-02_15:04:05",
	}).With().Timestamp().Caller().Logger()

	return logger, logFile, nil
}
