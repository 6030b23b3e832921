// ABOUTME: HeuristicNarrator writes offline advice from a summary and targets.
// ABOUTME: Output is deterministic: fixed thresholds and a fixed action plan.
package narrate

import (
	"fmt"
	"strings"

	"github.com/harperreed/diet/internal/analysis"
	"github.com/harperreed/diet/internal/models"
	"github.com/harperreed/diet/internal/targets"
)

// HeuristicHeader opens every offline analysis.
const HeuristicHeader = "Offline analysis (no API key). Personalized insights:"

// Advisory thresholds as a fraction of the target.
const (
	ProteinLowRatio = 0.9
	FatHighRatio    = 1.2
	CarbsHighRatio  = 1.2
	FiberLowRatio   = 0.8
	SodiumHighRatio = 1.2
)

const (
	adviceProtein = "Protein appears below target; include a lean protein source each meal (eggs, Greek yogurt, tofu, fish, legumes)."
	adviceFat     = "Fat intake is above target; check portions of oils, nuts, cheese, and fried foods."
	adviceCarbs   = "Carbs exceed target; swap refined grains for whole grains and add non-starchy veggies."
	adviceFiber   = "Fiber is low; add beans/lentils, whole grains, fruits, and extra vegetables."
	adviceSodium  = "Sodium is high; favor fresh foods, choose low-sodium options, and season with herbs/spices."
)

// ActionPlan is appended to every offline analysis.
var ActionPlan = []string{
	"Pre-plan 1–2 high-protein snacks to close protein gaps.",
	"Fill half the plate with vegetables at lunch/dinner to lift fiber and reduce calories.",
	"Swap sugary drinks for water or unsweetened tea/coffee.",
	"Cook with measured amounts of oil to manage fat intake.",
	"Log consistently for another 1–2 weeks to gauge trends.",
}

// Advisories returns the threshold advisories that apply, in fixed order.
func Advisories(s *analysis.Summary, t targets.Targets) []string {
	avg := s.Averages
	var out []string
	if avg.ProteinG < t.ProteinG*ProteinLowRatio {
		out = append(out, adviceProtein)
	}
	if avg.FatG > t.FatG*FatHighRatio {
		out = append(out, adviceFat)
	}
	if avg.CarbsG > t.CarbsG*CarbsHighRatio {
		out = append(out, adviceCarbs)
	}
	if avg.FiberG < t.FiberG*FiberLowRatio {
		out = append(out, adviceFiber)
	}
	if avg.SodiumMg > t.SodiumMg*SodiumHighRatio {
		out = append(out, adviceSodium)
	}
	return out
}

// Heuristic renders the offline analysis. It has no side effects.
func Heuristic(s *analysis.Summary, p models.Profile, t targets.Targets) string {
	var b strings.Builder
	avg := s.Averages

	b.WriteString(HeuristicHeader + "\n\n")
	fmt.Fprintf(&b, "- Profile: %s, %d y, %.1f kg, %.0f cm, activity %s\n",
		p.Sex, p.Age, p.WeightKg, p.HeightCm, p.ActivityLevel)
	fmt.Fprintf(&b, "- Targets: Calories %.0f, Protein %.0fg, Carbs %.0fg, Fat %.0fg, Fiber %.0fg, Sodium %.0fmg\n",
		t.CalorieTarget, t.ProteinG, t.CarbsG, t.FatG, t.FiberG, t.SodiumMg)
	fmt.Fprintf(&b, "- Actual averages: Calories %.0f (%+.0f vs target), Protein %.0fg (%+.0fg), Carbs %.0fg (%+.0fg), Fat %.0fg (%+.0fg)\n",
		avg.Calories, avg.Calories-t.CalorieTarget,
		avg.ProteinG, avg.ProteinG-t.ProteinG,
		avg.CarbsG, avg.CarbsG-t.CarbsG,
		avg.FatG, avg.FatG-t.FatG)
	fmt.Fprintf(&b, "- Macro balance (%% calories): Protein %.0f%%, Carbs %.0f%%, Fat %.0f%%\n",
		s.MacroPercent.Protein, s.MacroPercent.Carbs, s.MacroPercent.Fat)

	for _, a := range Advisories(s, t) {
		b.WriteString("  • " + a + "\n")
	}

	b.WriteString("\nAction plan:\n")
	for _, step := range ActionPlan {
		b.WriteString("• " + step + "\n")
	}
	return b.String()
}
