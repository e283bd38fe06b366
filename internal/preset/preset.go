// Package preset holds the built-in habit catalog users can pick from when
// setting up their dashboard. The catalog is static data — the API serves
// it read-only and creating a habit from a preset goes through the normal
// habit creation path.
package preset

// XP rewards per difficulty tier.
const (
	XPEasy   = 25
	XPMedium = 50
	XPHard   = 100
	XPEpic   = 200
)

// Habit is one catalog entry. It deliberately mirrors the creatable fields
// of model.Habit without the persistence fields (ID, UserID, timestamps).
type Habit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	XPReward    int    `json:"xpReward"`
	Difficulty  string `json:"difficulty"`
}

// Habits is the catalog, in display order.
var Habits = []Habit{
	{Name: "Exercise", Description: "30 minutes of physical activity", XPReward: XPHard, Difficulty: "Hard"},
	{Name: "Meditate", Description: "10 minutes of mindfulness meditation", XPReward: XPMedium, Difficulty: "Medium"},
	{Name: "Read", Description: "Read for at least 20 minutes", XPReward: XPMedium, Difficulty: "Medium"},
	{Name: "Hydrate", Description: "Drink 8 glasses of water", XPReward: XPEasy, Difficulty: "Easy"},
	{Name: "Journal", Description: "Write in your journal", XPReward: XPMedium, Difficulty: "Medium"},
	{Name: "Stretch", Description: "10 minutes of stretching", XPReward: XPEasy, Difficulty: "Easy"},
	{Name: "Meal Prep", Description: "Prepare a healthy meal", XPReward: XPHard, Difficulty: "Hard"},
	{Name: "Deep Work", Description: "2 hours of focused, uninterrupted work", XPReward: XPEpic, Difficulty: "Epic"},
	{Name: "Learn", Description: "Learn something new for 30 minutes", XPReward: XPHard, Difficulty: "Hard"},
	{Name: "No Social Media", Description: "Avoid social media for the entire day", XPReward: XPEpic, Difficulty: "Epic"},
	{Name: "Sleep", Description: "Get 7-8 hours of quality sleep", XPReward: XPMedium, Difficulty: "Medium"},
	{Name: "Walk", Description: "Take a 20-minute walk", XPReward: XPEasy, Difficulty: "Easy"},
	{Name: "Gratitude", Description: "Write down 3 things you are grateful for", XPReward: XPEasy, Difficulty: "Easy"},
	{Name: "Plan Tomorrow", Description: "Plan your tasks for the next day", XPReward: XPMedium, Difficulty: "Medium"},
	{Name: "Clean/Organize", Description: "Spend 15 minutes cleaning or organizing", XPReward: XPMedium, Difficulty: "Medium"},
}
