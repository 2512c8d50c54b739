package graph

// roadClassInfo is one row of the fixed road-class lookup table (SPEC_FULL.md §3).
type roadClassInfo struct {
	weightMultiplier float64
	speedKMH         float64
}

var roadClasses = map[string]roadClassInfo{
	"motorway":     {weightMultiplier: 1.0, speedKMH: 90},
	"trunk":        {weightMultiplier: 1.2, speedKMH: 70},
	"primary":      {weightMultiplier: 1.5, speedKMH: 60},
	"secondary":    {weightMultiplier: 2.0, speedKMH: 50},
	"tertiary":     {weightMultiplier: 2.5, speedKMH: 40},
	"residential":  {weightMultiplier: 3.0, speedKMH: 30},
	"unclassified": {weightMultiplier: 3.5, speedKMH: 25},
}

var defaultRoadClass = roadClassInfo{weightMultiplier: 2.0, speedKMH: 40}

func classInfo(class string) roadClassInfo {
	if info, ok := roadClasses[class]; ok {
		return info
	}
	return defaultRoadClass
}

// WeightMultiplier returns the weight multiplier for a road class, falling
// back to the default row when the class is unrecognized.
func WeightMultiplier(class string) float64 {
	return classInfo(class).weightMultiplier
}

// SpeedKMH returns the assumed travel speed for a road class, falling back
// to the default row when the class is unrecognized.
func SpeedKMH(class string) float64 {
	return classInfo(class).speedKMH
}
