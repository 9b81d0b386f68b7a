package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"righthome-agent/internal/cache"
	"righthome-agent/internal/chatapi"
	"righthome-agent/internal/config"
	"righthome-agent/internal/conversation"
	"righthome-agent/internal/domain"
	"righthome-agent/internal/listing"
	"righthome-agent/internal/logging"
	"righthome-agent/internal/sequencer"
	"righthome-agent/internal/ui"
	"righthome-agent/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "righthome",
		Short:         "RightHomeAI real estate chat assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	chat := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(configPath)
		},
	}
	property := &cobra.Command{
		Use:   "property <id>",
		Short: "Show details for a property from the current results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProperty(configPath, args[0])
		},
	}
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Clear the cached conversation and search results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(configPath)
		},
	}
	root.AddCommand(chat, property, reset)
	return root
}

func openCache(cfg config.Config) (*cache.PebbleCache, error) {
	if cfg.CacheDir == "" {
		return nil, errors.New("cache dir must not be empty")
	}
	return cache.OpenPebble(filepath.Join(cfg.CacheDir, "state"))
}

func runChat(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, listings, c, err := buildState(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	events := make(chan tea.Msg, 256)
	seq, err := sequencer.New(store, sequencer.TimerScheduler{}, ui.Listener(events), cfg.TypeInterval, cfg.PaceDelay)
	if err != nil {
		return err
	}

	client, err := chatapi.NewClient(cfg.EndpointURL,
		chatapi.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
	if err != nil {
		return err
	}

	svc, err := usecase.NewChatService(client, store, seq, log)
	if err != nil {
		return err
	}

	log.Info("starting chat", zap.String("session_id", svc.SessionID()), zap.String("endpoint", cfg.EndpointURL))

	model := ui.New(svc, store, listings, seq, events, log)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	seq.Cancel()
	return nil
}

func runProperty(configPath, rawID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, listings, c, err := buildState(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	store.Load()
	prop, err := listing.Find(store.Properties(), domain.ID(rawID))
	if err != nil {
		return fmt.Errorf("no property with id %s in the current results", rawID)
	}
	if err := listings.Remember(prop); err != nil {
		log.Warn("remembering viewed property failed", zap.Error(err))
	}

	printProperty(os.Stdout, prop, listings.IsFavorite(prop.ID))
	return nil
}

func runReset(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, _, c, err := buildState(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	store.Reset()
	fmt.Println("Conversation cleared. Favorites were kept.")
	return nil
}

func buildState(cfg config.Config, log *zap.Logger) (*conversation.Store, *listing.Service, *cache.PebbleCache, error) {
	c, err := openCache(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := conversation.NewStore(c, log)
	if err != nil {
		_ = c.Close()
		return nil, nil, nil, err
	}
	listings, err := listing.NewService(c, log)
	if err != nil {
		_ = c.Close()
		return nil, nil, nil, err
	}
	return store, listings, c, nil
}
