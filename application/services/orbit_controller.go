package services

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"thoughtgraph/application/ports"
	"thoughtgraph/domain/config"
	"thoughtgraph/pkg/observability"
)

// OrbitState is a read-only view of the controller for display and tests
type OrbitState struct {
	CurrentSpeed  float64 `json:"currentSpeed"`
	TargetSpeed   float64 `json:"targetSpeed"`
	UserSpeed     float64 `json:"userSpeed"`
	Angle         float64 `json:"angle"`
	Paused        bool    `json:"paused"`
	Interrupted   bool    `json:"interrupted"`
	ResumePending bool    `json:"resumePending"`
}

// OrbitController rotates the camera around the scene at an eased speed.
// It stops on user interaction and resumes after a delay. It knows nothing
// about the graph; it only reads and writes the camera.
type OrbitController struct {
	mu      sync.Mutex
	camera  ports.Camera
	clock   ports.Clock
	cfg     *config.OrbitConfig
	logger  *zap.Logger
	metrics *observability.Collector

	currentSpeed float64
	targetSpeed  float64
	easeFrom     float64
	easeStart    time.Time
	angle        float64
	moving       bool

	userSpeed   float64
	paused      bool
	interrupted bool
	resumeTimer ports.Timer
}

// NewOrbitController creates a controller at rest
func NewOrbitController(
	camera ports.Camera,
	clock ports.Clock,
	cfg *config.OrbitConfig,
	logger *zap.Logger,
	metrics *observability.Collector,
) *OrbitController {
	if cfg == nil {
		cfg = config.DefaultOrbitConfig()
	}
	return &OrbitController{
		camera:  camera,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		angle:   camera.CameraPosition().Azimuth(),
	}
}

// SetSpeed records the user's orbit speed in degrees per second. The camera
// eases toward it unless the orbit is interrupted or paused, in which case it
// becomes the speed restored on resume.
func (o *OrbitController) SetSpeed(degreesPerSecond float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.userSpeed = math.Max(0, math.Min(degreesPerSecond, o.cfg.MaxSpeed))
	if !o.paused && !o.interrupted {
		o.setTarget(o.userSpeed)
	}
}

// SetConfig swaps the tunables, keeping the current motion
func (o *OrbitController) SetConfig(cfg *config.OrbitConfig) {
	if cfg == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cfg = cfg
	o.userSpeed = math.Min(o.userSpeed, cfg.MaxSpeed)
	if !o.paused && !o.interrupted {
		o.setTarget(o.userSpeed)
	}
}

// Interrupt stops the orbit and schedules a resume. Each call replaces the
// pending resume, so repeated interaction keeps pushing it back.
func (o *OrbitController) Interrupt() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.metrics.RecordOrbitInterrupt()
	o.interrupted = true
	o.setTarget(0)

	delay := o.cfg.ResumeDelay
	if o.paused {
		delay = o.cfg.PausedResumeDelay
	}
	o.scheduleResume(delay)
	o.logger.Debug("orbit interrupted", zap.Duration("resumeIn", delay), zap.Bool("paused", o.paused))
}

// TogglePause pauses or unpauses the orbit and reports the new paused state.
// A pause still ends on its own after the paused resume delay.
func (o *OrbitController) TogglePause() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.paused {
		o.stopResumeTimer()
		o.paused = false
		o.interrupted = false
		o.setTarget(o.userSpeed)
		return false
	}

	o.paused = true
	o.setTarget(0)
	o.scheduleResume(o.cfg.PausedResumeDelay)
	return true
}

// Tick advances the animation to now and reports whether the orbit is still
// active: easing, or turning fast enough to move the camera.
func (o *OrbitController) Tick(now time.Time) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ease(now)

	if o.currentSpeed <= o.cfg.MinSpeed {
		o.moving = false
		return o.currentSpeed != o.targetSpeed
	}

	pos := o.camera.CameraPosition()
	if !o.moving {
		// The user may have dragged the camera while the orbit was at rest.
		o.angle = pos.Azimuth()
		o.moving = true
	}

	o.angle += o.currentSpeed * math.Pi / 180 / o.cfg.StepsPerSecond
	d := o.camera.CameraDistance()
	pos.X = d * math.Sin(o.angle)
	pos.Z = d * math.Cos(o.angle)
	o.camera.SetCameraPosition(pos)
	return true
}

// Run ticks the controller at StepsPerSecond until ctx is done
func (o *OrbitController) Run(ctx context.Context) error {
	o.mu.Lock()
	interval := time.Duration(float64(time.Second) / o.cfg.StepsPerSecond)
	o.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.Stop()
			return ctx.Err()
		case <-ticker.C:
			o.Tick(o.clock.Now())
		}
	}
}

// Stop cancels any pending resume
func (o *OrbitController) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopResumeTimer()
}

// State returns the current controller state
func (o *OrbitController) State() OrbitState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return OrbitState{
		CurrentSpeed:  o.currentSpeed,
		TargetSpeed:   o.targetSpeed,
		UserSpeed:     o.userSpeed,
		Angle:         o.angle,
		Paused:        o.paused,
		Interrupted:   o.interrupted,
		ResumePending: o.resumeTimer != nil,
	}
}

// resume restores the user speed. Callers hold mu.
func (o *OrbitController) resume() {
	o.resumeTimer = nil
	o.paused = false
	o.interrupted = false
	o.setTarget(o.userSpeed)
	o.logger.Debug("orbit resumed", zap.Float64("speed", o.userSpeed))
}

// setTarget starts a new transition from the current speed. Callers hold mu.
func (o *OrbitController) setTarget(speed float64) {
	if speed == o.targetSpeed {
		return
	}
	o.easeFrom = o.currentSpeed
	o.easeStart = o.clock.Now()
	o.targetSpeed = speed
}

func (o *OrbitController) ease(now time.Time) {
	if o.currentSpeed == o.targetSpeed {
		return
	}

	progress := 1.0
	if o.cfg.EaseDuration > 0 {
		progress = float64(now.Sub(o.easeStart)) / float64(o.cfg.EaseDuration)
	}
	if progress >= 1 {
		o.currentSpeed = o.targetSpeed
		return
	}
	if progress < 0 {
		progress = 0
	}

	var eased float64
	switch {
	case o.targetSpeed == 0:
		eased = easeOutCubic(progress)
	case o.easeFrom == 0:
		eased = easeInCubic(progress)
	default:
		eased = easeOutCubic(progress)
	}
	o.currentSpeed = o.easeFrom + (o.targetSpeed-o.easeFrom)*eased
}

// scheduleResume replaces the pending resume timer. Callers hold mu.
func (o *OrbitController) scheduleResume(delay time.Duration) {
	o.stopResumeTimer()

	var timer ports.Timer
	timer = o.clock.AfterFunc(delay, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		// A replaced timer may still fire if Stop raced with it.
		if o.resumeTimer == timer {
			o.resume()
		}
	})
	o.resumeTimer = timer
}

func (o *OrbitController) stopResumeTimer() {
	if o.resumeTimer != nil {
		o.resumeTimer.Stop()
		o.resumeTimer = nil
	}
}

func easeOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func easeInCubic(t float64) float64 {
	return t * t * t
}
