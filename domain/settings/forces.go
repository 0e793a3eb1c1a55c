package settings

// ForceParams are the simulation parameters handed to the renderer
type ForceParams struct {
	CenterStrength float64 `json:"centerStrength"`
	ChargeStrength float64 `json:"chargeStrength"` // negative: nodes repel
	LinkStrength   float64 `json:"linkStrength"`
	LinkDistance   float64 `json:"linkDistance"`
}

const (
	maxCenterStrength = 1.0
	maxRepel          = 300.0
	maxLinkStrength   = 1.0
	minLinkDistance   = 10.0
	maxLinkDistance   = 300.0
)

// ForceParams maps the 0-100 force sliders onto renderer units
func (s DisplaySettings) ForceParams() ForceParams {
	return ForceParams{
		CenterStrength: scale(s.ForceCenter) * maxCenterStrength,
		ChargeStrength: -scale(s.ForceRepel) * maxRepel,
		LinkStrength:   scale(s.ForceLink) * maxLinkStrength,
		LinkDistance:   minLinkDistance + scale(s.ForceDistance)*(maxLinkDistance-minLinkDistance),
	}
}

func scale(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 1
	default:
		return v / 100
	}
}
