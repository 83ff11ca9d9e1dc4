package meals

import "fmt"

const SystemPrompt = "You are a helpful assistant that provides meal suggestions."

const promptTemplate = "Generate 3 simple meal ideas (breakfast, lunch, dinner) for a diet with approximately %d calories and %dg of protein per day. " +
	"Provide a brief description for each meal. " +
	"Format as a list, e.g., 'Breakfast: [description]. Lunch: [description]. Dinner: [description].'"

// BuildPrompt interpolates the plan targets into the fixed request text.
func BuildPrompt(dailyCalories, dailyProtein int) string {
	return fmt.Sprintf(promptTemplate, dailyCalories, dailyProtein)
}
