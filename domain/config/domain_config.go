package config

import (
	"fmt"
	"time"
)

// GraphConfig holds the tunables of graph construction and rendering
type GraphConfig struct {
	// Session sizing: base + messageCount * multiplier
	SessionBaseSize       float64 `yaml:"session_base_size"`
	SessionSizeMultiplier float64 `yaml:"session_size_multiplier"`

	// Idea sizing, fixed per kind
	TextIdeaSize  float64 `yaml:"text_idea_size"`
	ImageIdeaSize float64 `yaml:"image_idea_size"`
	VideoIdeaSize float64 `yaml:"video_idea_size"`
	AudioIdeaSize float64 `yaml:"audio_idea_size"`
	FileIdeaSize  float64 `yaml:"file_idea_size"`
	URLIdeaSize   float64 `yaml:"url_idea_size"`

	// Each member of a tag bucket links to at most this many later members
	MaxTagPeers int `yaml:"max_tag_peers"`

	// Sessions kept when rendering; 0 disables capping
	MaxRenderedSessions int `yaml:"max_rendered_sessions"`

	// Second click on the same session within this window opens its detail
	DoubleClickWindow time.Duration `yaml:"double_click_window"`
}

// OrbitConfig holds the camera orbit timings
type OrbitConfig struct {
	MaxSpeed          float64       `yaml:"max_speed"` // degrees per second
	MinSpeed          float64       `yaml:"min_speed"` // below this the camera is not moved
	EaseDuration      time.Duration `yaml:"ease_duration"`
	ResumeDelay       time.Duration `yaml:"resume_delay"`
	PausedResumeDelay time.Duration `yaml:"paused_resume_delay"`
	StepsPerSecond    float64       `yaml:"steps_per_second"`
}

// DefaultGraphConfig returns the default graph configuration
func DefaultGraphConfig() *GraphConfig {
	return &GraphConfig{
		SessionBaseSize:       6,
		SessionSizeMultiplier: 1.5,

		TextIdeaSize:  2,
		ImageIdeaSize: 4,
		VideoIdeaSize: 4,
		AudioIdeaSize: 2,
		FileIdeaSize:  2,
		URLIdeaSize:   2,

		MaxTagPeers:         2,
		MaxRenderedSessions: 0,
		DoubleClickWindow:   300 * time.Millisecond,
	}
}

// ProductionGraphConfig caps rendering for large collections
func ProductionGraphConfig() *GraphConfig {
	cfg := DefaultGraphConfig()
	cfg.MaxRenderedSessions = 500
	return cfg
}

// DevelopmentGraphConfig renders everything
func DevelopmentGraphConfig() *GraphConfig {
	return DefaultGraphConfig()
}

// LoadGraphConfig returns the graph configuration for an environment
func LoadGraphConfig(environment string) *GraphConfig {
	switch environment {
	case "production":
		return ProductionGraphConfig()
	case "development":
		return DevelopmentGraphConfig()
	default:
		return DefaultGraphConfig()
	}
}

// Validate checks if the configuration is usable
func (c *GraphConfig) Validate() error {
	if c.SessionBaseSize <= 0 {
		return fmt.Errorf("session base size must be positive, got %v", c.SessionBaseSize)
	}
	if c.SessionSizeMultiplier < 0 {
		return fmt.Errorf("session size multiplier must not be negative, got %v", c.SessionSizeMultiplier)
	}
	for name, size := range map[string]float64{
		"text":  c.TextIdeaSize,
		"image": c.ImageIdeaSize,
		"video": c.VideoIdeaSize,
		"audio": c.AudioIdeaSize,
		"file":  c.FileIdeaSize,
		"url":   c.URLIdeaSize,
	} {
		if size <= 0 {
			return fmt.Errorf("%s idea size must be positive, got %v", name, size)
		}
	}
	if c.MaxTagPeers < 1 {
		return fmt.Errorf("max tag peers must be at least 1, got %d", c.MaxTagPeers)
	}
	if c.MaxRenderedSessions < 0 {
		return fmt.Errorf("max rendered sessions must not be negative, got %d", c.MaxRenderedSessions)
	}
	return nil
}

// DefaultOrbitConfig returns the default orbit configuration
func DefaultOrbitConfig() *OrbitConfig {
	return &OrbitConfig{
		MaxSpeed:          20,
		MinSpeed:          0.1,
		EaseDuration:      time.Second,
		ResumeDelay:       3 * time.Second,
		PausedResumeDelay: 90 * time.Second,
		StepsPerSecond:    60,
	}
}

// Validate checks if the configuration is usable
func (c *OrbitConfig) Validate() error {
	if c.MaxSpeed <= 0 {
		return fmt.Errorf("orbit max speed must be positive, got %v", c.MaxSpeed)
	}
	if c.EaseDuration <= 0 {
		return fmt.Errorf("orbit ease duration must be positive, got %v", c.EaseDuration)
	}
	if c.StepsPerSecond <= 0 {
		return fmt.Errorf("orbit steps per second must be positive, got %v", c.StepsPerSecond)
	}
	if c.ResumeDelay < 0 || c.PausedResumeDelay < 0 {
		return fmt.Errorf("orbit resume delays must not be negative")
	}
	return nil
}
