package cli

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"thoughtgraph/infrastructure/clock"
)

func orbitCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orbit",
		Short: "Camera orbit tools",
	}
	cmd.AddCommand(orbitSimulateCmd(opts))
	return cmd
}

type orbitSample struct {
	At           time.Duration `json:"at"`
	CurrentSpeed float64       `json:"currentSpeed"`
	TargetSpeed  float64       `json:"targetSpeed"`
	AngleDegrees float64       `json:"angleDegrees"`
	X            float64       `json:"x"`
	Z            float64       `json:"z"`
	State        string        `json:"state"`
}

func orbitSimulateCmd(opts *options) *cobra.Command {
	var (
		duration    time.Duration
		every       time.Duration
		speed       float64
		interrupts  []time.Duration
		pauseToggle []time.Duration
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the orbit against a simulated clock and print samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start := time.Unix(0, 0).UTC()
			clk := clock.NewManual(start)

			c, cleanup, err := opts.open(ctx, clk)
			if err != nil {
				return err
			}
			defer cleanup()

			c.Settings.Load(ctx)
			if cmd.Flags().Changed("speed") {
				c.Orbit.SetSpeed(speed)
			}

			sort.Slice(interrupts, func(i, j int) bool { return interrupts[i] < interrupts[j] })
			sort.Slice(pauseToggle, func(i, j int) bool { return pauseToggle[i] < pauseToggle[j] })

			step := time.Duration(float64(time.Second) / c.Config.Orbit.StepsPerSecond)
			var samples []orbitSample
			var nextSample time.Duration

			for elapsed := time.Duration(0); elapsed <= duration; elapsed += step {
				for len(interrupts) > 0 && interrupts[0] <= elapsed {
					c.Renderer.ClickBackground()
					interrupts = interrupts[1:]
				}
				for len(pauseToggle) > 0 && pauseToggle[0] <= elapsed {
					c.Orbit.TogglePause()
					pauseToggle = pauseToggle[1:]
				}

				c.Orbit.Tick(clk.Now())

				if elapsed >= nextSample {
					state := c.Orbit.State()
					pos := c.Renderer.CameraPosition()
					samples = append(samples, orbitSample{
						At:           elapsed,
						CurrentSpeed: state.CurrentSpeed,
						TargetSpeed:  state.TargetSpeed,
						AngleDegrees: math.Mod(state.Angle*180/math.Pi, 360),
						X:            pos.X,
						Z:            pos.Z,
						State:        describe(state.Paused, state.Interrupted),
					})
					nextSample += every
				}
				clk.Advance(step)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, samples)
			}

			heading(out, fmt.Sprintf("orbit over %s", duration))
			rows := make([][]string, 0, len(samples))
			for _, s := range samples {
				rows = append(rows, []string{
					s.At.String(),
					strconv.FormatFloat(s.CurrentSpeed, 'f', 2, 64),
					strconv.FormatFloat(s.TargetSpeed, 'f', 2, 64),
					strconv.FormatFloat(s.AngleDegrees, 'f', 1, 64),
					fmt.Sprintf("%.1f, %.1f", s.X, s.Z),
					s.State,
				})
			}
			table(out, []string{"Time", "Speed", "Target", "Angle", "Camera x, z", "State"}, rows)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&duration, "duration", 10*time.Second, "simulated time to run")
	flags.DurationVar(&every, "every", 500*time.Millisecond, "time between printed samples")
	flags.Float64Var(&speed, "speed", 0, "orbit speed in degrees per second (default: from settings)")
	flags.DurationSliceVar(&interrupts, "interrupt-at", nil, "simulate background clicks at these offsets")
	flags.DurationSliceVar(&pauseToggle, "pause-at", nil, "toggle pause at these offsets")
	flags.BoolVar(&asJSON, "json", false, "print samples as JSON")
	return cmd
}

func describe(paused, interrupted bool) string {
	switch {
	case paused:
		return "paused"
	case interrupted:
		return "interrupted"
	default:
		return "orbiting"
	}
}
