// Package config manages the trainer's single persisted configuration
// record: the saved connection (platform endpoint plus session token) and
// the answer-memory table keyed by question ID.
//
// Values are layered, highest priority first: environment overrides, the
// JSON config file, baked-in defaults. A missing or malformed file falls
// back to the defaults rather than failing startup.
package config

import (
	"qgxf-trainer/models"
)

// DefaultFileName is the config file written next to the working directory,
// inherited from earlier releases so existing installs keep their state.
const DefaultFileName = "USTB-QGXF-Config.json"

const currentVersion = 2

// Connection is the persisted session: which platform deployment to talk to
// and the token to resume with.
type Connection struct {
	BaseURL string `json:"baseUrl" env:"BASE_URL"`
	Token   string `json:"token" env:"TOKEN"`
}

// Config is the full persisted record.
type Config struct {
	Connection Connection                       `json:"connection" envPrefix:"QGXF_"`
	Memory     map[string]models.QuestionRecord `json:"memory"`
	Version    int                              `json:"version"`
}

// defaults returns the baked-in configuration. Memory is left nil here and
// filled by defaultMemory after merging, so a user-managed memory table is
// never polluted with the example record.
func defaults() *Config {
	return &Config{Version: currentVersion}
}

// defaultMemory seeds a fresh answer memory with one example record showing
// the persisted shape.
func defaultMemory() map[string]models.QuestionRecord {
	return map[string]models.QuestionRecord{
		"0": {
			Title: "This is an example multiple-selection question record.",
			Type:  models.QuestionMultipleChoice,
			Answers: map[string]models.AnswerRecord{
				"1": {Title: "Example option 1."},
				"2": {Title: "Example option 2."},
				"3": {Title: "Example option 3."},
			},
			RightAnswer: "1|2|3",
		},
	}
}
