package weather

import "testing"

func TestClassify(t *testing.T) {
	cases := map[string]Condition{
		"clear sky":                 ConditionClear,
		"Sunny":                     ConditionClear,
		"few clouds":                ConditionClouds,
		"overcast clouds":           ConditionClouds,
		"light rain":                ConditionRain,
		"shower rain":               ConditionRain,
		"drizzle":                   ConditionRain,
		"thunderstorm with rain":    ConditionRain,
		"snow":                      ConditionOther,
		"mist":                      ConditionOther,
		"":                          ConditionOther,
		"Clouds with light drizzle": ConditionRain,
	}

	for desc, want := range cases {
		if got := Classify(desc); got != want {
			t.Errorf("Classify(%q) = %s, want %s", desc, got, want)
		}
	}
}

func TestRecordCloneIsIndependent(t *testing.T) {
	orig := Record{
		LocationName:     "Paris",
		FeelsLikeCelsius: float(17),
		Conditions:       []ConditionDescription{{Description: "clear sky"}},
		Coordinates:      &Coordinates{Latitude: 48.85, Longitude: 2.35},
	}

	cp := orig.clone()
	*cp.FeelsLikeCelsius = 0
	cp.Conditions[0].Description = "changed"
	cp.Coordinates.Latitude = 0

	if *orig.FeelsLikeCelsius != 17 || orig.Conditions[0].Description != "clear sky" || orig.Coordinates.Latitude != 48.85 {
		t.Errorf("clone shares memory with original: %+v", orig)
	}
}
