package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// GameConfig holds the tunable rules shared by the room game variants.
type GameConfig struct {
	MinParticipants   int `json:"min_participants"`
	RoundCap          int `json:"round_cap"`
	ChoiceCount       int `json:"choice_count"`
	TimerBaseSeconds  int `json:"timer_base_seconds"`
	TimerStepSeconds  int `json:"timer_step_seconds"`
	TimerFloorSeconds int `json:"timer_floor_seconds"`
	// ExplainTimerSeconds is the flat per-author countdown for the
	// explanation game; it does not shrink round over round.
	ExplainTimerSeconds int `json:"explain_timer_seconds"`
	// EliminationRate is the fraction of wrong answerers eliminated per
	// round. Only a rate of 1 has behavior; see app.SurvivalConfig.
	EliminationRate float64 `json:"elimination_rate"`

	InviteSecret     string `json:"invite_secret"`
	InviteIssuer     string `json:"invite_issuer"`
	InviteTTLMinutes int    `json:"invite_ttl_minutes"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the built-in configuration used when no file is provided.
func Default() GameConfig {
	return GameConfig{
		MinParticipants:     2,
		RoundCap:            0, // use every available item
		ChoiceCount:         4,
		TimerBaseSeconds:    15,
		TimerStepSeconds:    1,
		TimerFloorSeconds:   5,
		ExplainTimerSeconds: 20,
		EliminationRate:     1,
		InviteIssuer:        "studyparty",
		InviteTTLMinutes:    60,
	}
}

// LoadGameConfig loads the game configuration from the given path, then
// layers environment variables on top. A missing file keeps the defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		_ = godotenv.Load()

		c := Default()
		if path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				if !os.IsNotExist(err) {
					loadErr = fmt.Errorf("failed to read game config: %w", err)
					return
				}
			} else if err := json.Unmarshal(data, &c); err != nil {
				loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
				return
			}
		}
		applyEnv(&c)
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, loading defaults if
// LoadGameConfig was never called.
func GetGameConfig() *GameConfig {
	_ = LoadGameConfig("")
	if cfg == nil {
		c := Default()
		return &c
	}
	return cfg
}

func applyEnv(c *GameConfig) {
	envInt("STUDYPARTY_MIN_PARTICIPANTS", &c.MinParticipants)
	envInt("STUDYPARTY_ROUND_CAP", &c.RoundCap)
	envInt("STUDYPARTY_CHOICE_COUNT", &c.ChoiceCount)
	envInt("STUDYPARTY_TIMER_BASE_SEC", &c.TimerBaseSeconds)
	envInt("STUDYPARTY_TIMER_STEP_SEC", &c.TimerStepSeconds)
	envInt("STUDYPARTY_TIMER_FLOOR_SEC", &c.TimerFloorSeconds)
	envInt("STUDYPARTY_EXPLAIN_TIMER_SEC", &c.ExplainTimerSeconds)
	envInt("STUDYPARTY_INVITE_TTL_MIN", &c.InviteTTLMinutes)
	if v := os.Getenv("STUDYPARTY_INVITE_SECRET"); v != "" {
		c.InviteSecret = v
	}
	if v := os.Getenv("STUDYPARTY_INVITE_ISSUER"); v != "" {
		c.InviteIssuer = v
	}
	if v := os.Getenv("STUDYPARTY_ELIMINATION_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.EliminationRate = f
		}
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}
