package config

import (
	"errors"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultStoreName      = "taskmaster.db"
	DefaultLogName        = "taskmaster.log"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Toggle   string `toml:"toggle"`
	Delete   string `toml:"delete"`
	Edit     string `toml:"edit"`
	Search   string `toml:"search"`
	PrevPage string `toml:"prev_page"`
	NextPage string `toml:"next_page"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
}

type Config struct {
	StorePath            string `toml:"store_path"`
	LogPath              string `toml:"log_path"`
	ItemsPerPage         int    `toml:"items_per_page"`
	ReminderIntervalSecs int    `toml:"reminder_interval_secs"`
	NoticeTimeoutSecs    int    `toml:"notice_timeout_secs"`
	Keys                 Keymap `toml:"keys"`
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.StorePath == "" {
		cfg.StorePath = DefaultStoreName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if cfg.ItemsPerPage <= 0 {
		cfg.ItemsPerPage = 5
	}
	if cfg.ReminderIntervalSecs <= 0 {
		cfg.ReminderIntervalSecs = 60
	}
	if cfg.NoticeTimeoutSecs <= 0 {
		cfg.NoticeTimeoutSecs = 5
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		StorePath:            DefaultStoreName,
		LogPath:              DefaultLogName,
		ItemsPerPage:         5,
		ReminderIntervalSecs: 60,
		NoticeTimeoutSecs:    5,
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Up:       "k",
			Down:     "j",
			Toggle:   " ",
			Delete:   "d",
			Edit:     "e",
			Search:   "/",
			PrevPage: "[",
			NextPage: "]",
			Confirm:  "enter",
			Cancel:   "esc",
		},
	}
}
