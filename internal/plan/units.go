package plan

import "fmt"

// Presentation-only conversions. The engine itself works in meters and
// seconds regardless of the configured unit system.

const (
	kmPerMi = 1.609344
	ftPerM  = 3.28084
)

func KmToMi(km float64) float64 { return km / kmPerMi }

func MiToKm(mi float64) float64 { return mi * kmPerMi }

func MToFt(m float64) float64 { return m * ftPerM }

// FormatPace renders a seconds-per-km pace as mm:ss per display unit.
func FormatPace(secPerKm float64, units string) string {
	sec := secPerKm
	suffix := "/km"
	if units == UnitsImperial {
		sec = secPerKm * kmPerMi
		suffix = "/mi"
	}
	total := int(sec + 0.5)
	return fmt.Sprintf("%d:%02d %s", total/60, total%60, suffix)
}
