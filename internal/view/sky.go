package view

import "time"

// Phase is the time-of-day stage of the home page sky.
type Phase string

const (
	PhaseNight   Phase = "night"
	PhaseDawn    Phase = "dawn"
	PhaseMorning Phase = "morning"
	PhaseDay     Phase = "day"
	PhaseDusk    Phase = "dusk"
	PhaseEvening Phase = "evening"
)

// Sky describes the hero backdrop at one moment. Progress runs 0..1 through the
// transition phases (dawn, dusk, evening) and is 0 otherwise. CelestialTop is
// the vertical position of the sun or moon as a percentage of the hero height.
type Sky struct {
	Hour         float64
	Phase        Phase
	Progress     float64
	Stars        bool
	Sun          bool
	Moon         bool
	CelestialTop float64
}

// SkyAt computes the sky for a fractional hour in [0,24).
func SkyAt(hour float64) Sky {
	s := Sky{Hour: hour}
	switch {
	case hour >= 22 || hour < 4:
		s.Phase = PhaseNight
		s.Stars, s.Moon = true, true
	case hour < 6.5:
		s.Phase = PhaseDawn
		s.Progress = (hour - 4) / 2.5
		s.Stars = s.Progress < 0.4
		s.Sun = s.Progress > 0.2
	case hour < 10:
		s.Phase = PhaseMorning
		s.Sun = true
	case hour < 16:
		s.Phase = PhaseDay
		s.Sun = true
	case hour < 18.5:
		s.Phase = PhaseDusk
		s.Progress = (hour - 16) / 2.5
		s.Sun = s.Progress < 0.8
	default:
		s.Phase = PhaseEvening
		s.Progress = (hour - 18.5) / 3.5
		s.Stars = s.Progress > 0.4
		s.Moon = s.Progress > 0.5
	}

	if hour >= 4 && hour <= 18.5 {
		s.CelestialTop = (hour - 4) / 14.5 * 100
	} else {
		adj := hour - 18.5
		if hour < 4 {
			adj = hour + 5.5
		}
		s.CelestialTop = 20 + adj/10*60
	}
	return s
}

// CurrentSky returns the sky for the clock's current local time.
func CurrentSky() Sky {
	return SkyFor(clock.Now())
}

// SkyFor returns the sky at t in t's location.
func SkyFor(t time.Time) Sky {
	h := float64(t.Hour()) + float64(t.Minute())/60
	return SkyAt(h)
}
