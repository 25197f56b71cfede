package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"cardsight/speech"
	"cardsight/vision"
)

// Config 汇总服务端的全部运行参数
// Values come from the environment (optionally via a .env file); malformed
// numeric values are fatal, missing optional keys fall back to defaults.
type Config struct {
	Addr string

	Geometry   vision.Geometry
	Normalizer vision.NormalizerConfig

	// TTSCommand is the speech binary ("say", "espeak-ng", ...). Empty
	// means announcements are logged instead of spoken.
	TTSCommand string
	TTSArgs    []string

	Speech speech.Config
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Config] No .env file found: %v", err)
	}

	cfg := Config{
		Addr:       getEnv("CARDSIGHT_ADDR", ":8080"),
		Geometry:   vision.Geometry{FrameWidth: 1280, FrameHeight: 720, DividerY: 360},
		Normalizer: vision.DefaultNormalizerConfig(),
		TTSCommand: strings.TrimSpace(os.Getenv("CARDSIGHT_TTS_COMMAND")),
		Speech:     speech.DefaultConfig(),
	}
	if raw := strings.TrimSpace(os.Getenv("CARDSIGHT_TTS_ARGS")); raw != "" {
		cfg.TTSArgs = strings.Fields(raw)
	}

	var err error
	if cfg.Geometry.FrameWidth, err = envInt("CARDSIGHT_FRAME_WIDTH", cfg.Geometry.FrameWidth); err != nil {
		return Config{}, err
	}
	if cfg.Geometry.FrameHeight, err = envInt("CARDSIGHT_FRAME_HEIGHT", cfg.Geometry.FrameHeight); err != nil {
		return Config{}, err
	}
	dividerSet := strings.TrimSpace(os.Getenv("CARDSIGHT_DIVIDER_Y")) != ""
	if cfg.Geometry.DividerY, err = envInt("CARDSIGHT_DIVIDER_Y", cfg.Geometry.DividerY); err != nil {
		return Config{}, err
	}
	if !dividerSet {
		// 默认分界线取画面水平中线
		cfg.Geometry.DividerY = cfg.Geometry.FrameHeight / 2
	}
	if err := cfg.Geometry.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid geometry: %w", err)
	}

	if cfg.Normalizer.MinConfidence, err = envFloat("CARDSIGHT_MIN_CONFIDENCE", cfg.Normalizer.MinConfidence); err != nil {
		return Config{}, err
	}
	if cfg.Normalizer.DwellFrames, err = envInt("CARDSIGHT_DWELL_FRAMES", cfg.Normalizer.DwellFrames); err != nil {
		return Config{}, err
	}
	if cfg.Normalizer.ClearFrames, err = envInt("CARDSIGHT_CLEAR_FRAMES", cfg.Normalizer.ClearFrames); err != nil {
		return Config{}, err
	}
	if err := cfg.Normalizer.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid normalizer config: %w", err)
	}

	if cfg.Speech.QueueSize, err = envInt("CARDSIGHT_SPEECH_QUEUE", cfg.Speech.QueueSize); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func envFloat(key string, defaultValue float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func envInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
