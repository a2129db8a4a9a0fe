package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"eventdeck/internal/api"
	"eventdeck/internal/app"
	"eventdeck/internal/credential"
	"eventdeck/internal/logging"
	"eventdeck/internal/model"
	"eventdeck/internal/notify"
	"eventdeck/internal/session"
	"eventdeck/internal/store"
	"eventdeck/internal/workflow"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the configuration file")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = logging.DefaultLogPath()
	}
	logger, closeLog, err := logging.Open(logPath)
	if err != nil {
		// The UI owns the terminal, so without a file we log nowhere.
		fmt.Fprintf(os.Stderr, "log file unavailable: %v\n", err)
		logger = logging.Discard()
		closeLog = func() error { return nil }
	}
	defer closeLog()

	gate := session.NewGate(credential.NewKeyring(), logger)
	client := api.NewClient(cfg.Server.BaseURL, gate, logger)
	events := store.NewSavedEvents(client, logger)
	center := notify.NewCenter(client, logger)
	wf := workflow.New(client, gate)

	root := app.New(app.Deps{
		Gate:         gate,
		Client:       client,
		Events:       events,
		Center:       center,
		Workflow:     wf,
		PollInterval: time.Duration(cfg.Display.NotificationPollSec) * time.Second,
		Logger:       logger,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("running application: %v", err)
	}
}
