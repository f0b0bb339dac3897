// Package storage persists user settings under the user config directory.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"safecalc/internal/core/model"
	"safecalc/internal/settings"
)

const (
	yamlFileName = "settings.yaml"
	tomlFileName = "settings.toml"
)

type fileSettings struct {
	DisguiseMode      string `yaml:"disguise_mode,omitempty" toml:"disguise_mode,omitempty"`
	TriggerPattern    string `yaml:"trigger_pattern,omitempty" toml:"trigger_pattern,omitempty"`
	TriggerCode       *string       `yaml:"trigger_code,omitempty" toml:"trigger_code,omitempty"`
	SoundEnabled      *bool         `yaml:"sound_enabled,omitempty" toml:"sound_enabled,omitempty"`
	DarkMode          *bool         `yaml:"dark_mode,omitempty" toml:"dark_mode,omitempty"`
	AutoLock          *bool         `yaml:"auto_lock,omitempty" toml:"auto_lock,omitempty"`
	AutoLockSeconds   int           `yaml:"auto_lock_seconds,omitempty" toml:"auto_lock_seconds,omitempty"`
	BreathingMinutes  int           `yaml:"breathing_minutes,omitempty" toml:"breathing_minutes,omitempty"`
	BreatheInSeconds  int           `yaml:"breathe_in_seconds,omitempty" toml:"breathe_in_seconds,omitempty"`
	HoldSeconds       int           `yaml:"hold_seconds,omitempty" toml:"hold_seconds,omitempty"`
	BreatheOutSeconds int           `yaml:"breathe_out_seconds,omitempty" toml:"breathe_out_seconds,omitempty"`
	RestSeconds       int           `yaml:"rest_seconds,omitempty" toml:"rest_seconds,omitempty"`
	Contacts          []fileContact `yaml:"contacts,omitempty" toml:"contacts,omitempty"`
}

type fileContact struct {
	Name  string `yaml:"name" toml:"name"`
	Phone string `yaml:"phone,omitempty" toml:"phone,omitempty"`
}

// LoadSettings reads user preferences for the application.
// A settings.toml file takes precedence over settings.yaml; if neither
// exists, default settings are returned.
func LoadSettings(appName string) (settings.Settings, error) {
	path, err := ResolvePath(appName)
	if err != nil {
		return settings.DefaultSettings(), err
	}
	return LoadFile(path)
}

// SaveSettings writes user preferences to the file LoadSettings reads.
func SaveSettings(appName string, prefs settings.Settings) error {
	path, err := ResolvePath(appName)
	if err != nil {
		return err
	}
	return SaveFile(path, prefs)
}

// LoadFile reads preferences from a YAML or TOML file chosen by extension.
// A missing file yields default settings.
func LoadFile(path string) (settings.Settings, error) {
	prefs := settings.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read settings file: %w", err)
	}

	var fileData fileSettings
	if isTOML(path) {
		err = decodeTOML(rawData, &fileData)
	} else {
		err = decodeYAML(rawData, &fileData)
	}
	if err != nil {
		return prefs, err
	}

	applyFileSettings(&prefs, fileData)
	return prefs, nil
}

// SaveFile writes preferences to a YAML or TOML file chosen by extension.
func SaveFile(path string, prefs settings.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := toFileSettings(prefs)
	var (
		serialized []byte
		err        error
	)
	if isTOML(path) {
		serialized, err = encodeTOML(fileData)
	} else {
		serialized, err = yaml.Marshal(fileData)
		if err != nil {
			err = fmt.Errorf("marshal settings yaml: %w", err)
		}
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, serialized, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// ResolvePath returns the settings file used for appName.
func ResolvePath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	dir := filepath.Join(configDir, appName)
	tomlPath := filepath.Join(dir, tomlFileName)
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	return filepath.Join(dir, yamlFileName), nil
}

func decodeYAML(rawData []byte, fileData *fileSettings) error {
	if err := yaml.Unmarshal(rawData, fileData); err != nil {
		return fmt.Errorf("parse settings yaml: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func toFileSettings(prefs settings.Settings) fileSettings {
	code := prefs.TriggerCode
	sound := prefs.SoundEnabled
	dark := prefs.DarkMode
	autoLock := prefs.AutoLock
	return fileSettings{
		DisguiseMode:      string(prefs.DisguiseMode),
		TriggerPattern:    string(prefs.TriggerPattern),
		TriggerCode:       &code,
		SoundEnabled:      &sound,
		DarkMode:          &dark,
		AutoLock:          &autoLock,
		AutoLockSeconds:   int(prefs.AutoLockAfter / time.Second),
		BreathingMinutes:  int(prefs.BreathingDuration / time.Minute),
		BreatheInSeconds:  int(prefs.BreathingPattern.In / time.Second),
		HoldSeconds:       int(prefs.BreathingPattern.Hold / time.Second),
		BreatheOutSeconds: int(prefs.BreathingPattern.Out / time.Second),
		RestSeconds:       int(prefs.BreathingPattern.Rest / time.Second),
		Contacts:          toFileContacts(prefs.Contacts),
	}
}

func toFileContacts(contacts []settings.Contact) []fileContact {
	if len(contacts) == 0 {
		return nil
	}
	fileContacts := make([]fileContact, 0, len(contacts))
	for _, contact := range contacts {
		fileContacts = append(fileContacts, fileContact{Name: contact.Name, Phone: contact.Phone})
	}
	return fileContacts
}

func applyFileSettings(prefs *settings.Settings, fileData fileSettings) {
	switch mode := settings.DisguiseMode(fileData.DisguiseMode); mode {
	case settings.DisguiseCalculator, settings.DisguiseNotes:
		prefs.DisguiseMode = mode
	}
	if pattern := model.TriggerPattern(fileData.TriggerPattern); pattern.Valid() {
		prefs.TriggerPattern = pattern
	}
	if fileData.TriggerCode != nil {
		prefs.TriggerCode = *fileData.TriggerCode
	}
	if fileData.SoundEnabled != nil {
		prefs.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.DarkMode != nil {
		prefs.DarkMode = *fileData.DarkMode
	}
	if fileData.AutoLock != nil {
		prefs.AutoLock = *fileData.AutoLock
	}
	if fileData.AutoLockSeconds > 0 {
		prefs.AutoLockAfter = time.Duration(fileData.AutoLockSeconds) * time.Second
	}
	if fileData.BreathingMinutes > 0 {
		prefs.BreathingDuration = time.Duration(fileData.BreathingMinutes) * time.Minute
	}

	pattern := model.BreathingPattern{
		In:   time.Duration(fileData.BreatheInSeconds) * time.Second,
		Hold: time.Duration(fileData.HoldSeconds) * time.Second,
		Out:  time.Duration(fileData.BreatheOutSeconds) * time.Second,
		Rest: time.Duration(fileData.RestSeconds) * time.Second,
	}
	if pattern.In > 0 && pattern.Hold >= 0 && pattern.Out > 0 && pattern.Rest >= 0 {
		prefs.BreathingPattern = pattern
	}

	for _, contact := range fileData.Contacts {
		name := strings.TrimSpace(contact.Name)
		if name == "" {
			continue
		}
		prefs.Contacts = append(prefs.Contacts, settings.Contact{Name: name, Phone: strings.TrimSpace(contact.Phone)})
	}
}
