// ABOUTME: Prompts shared by the hosted model collaborators.
package narrate

// SystemPrompt frames the model as a dietitian.
const SystemPrompt = "You are a registered dietitian analyzing nutrition tracking data with user profile and targets. " +
	"Given a JSON summary including profile, goals, calculated targets, and actual averages, " +
	"produce a concise, friendly, practical assessment in 250-400 words. " +
	"Use short bullet points followed by a brief action plan. Avoid medical advice. " +
	"Cover: energy balance vs target, macro alignment (protein/carbs/fat), fiber and sodium vs targets, " +
	"consistency/meal patterns, and 3-5 specific food or habit swaps tailored to the user's context."

// Sampling settings shared by collaborators.
const (
	Temperature = 0.4
	MaxTokens   = 700
)

// UserPrompt wraps the payload JSON.
func UserPrompt(payload string) string {
	return "Analyze this dataset and personalize the feedback:\n" + payload
}
