package types

// Settings is the single per-installation preferences record. There is no
// identity and no merge logic: SettingsStore.Get returns either the persisted
// record or DefaultSettings verbatim, and Set persists whatever it is given.
type Settings struct {
	Theme         string               `json:"theme"`
	DefaultView   string               `json:"defaultView"`
	AutoSave      bool                 `json:"autoSave"`
	Notifications NotificationSettings `json:"notifications"`
	TaskDefaults  TaskDefaults         `json:"taskDefaults"`
	UI            UISettings           `json:"ui"`
	Productivity  ProductivitySettings `json:"productivity"`
}

// NotificationSettings toggles the notification feature set.
type NotificationSettings struct {
	Enabled   bool `json:"enabled"`
	Desktop   bool `json:"desktop"`
	Sound     bool `json:"sound"`
	Reminders bool `json:"reminders"`
}

// TaskDefaults supplies the values new tasks fall back to.
type TaskDefaults struct {
	Priority      Priority `json:"priority"`
	Category      string   `json:"category"`
	EstimatedTime float64  `json:"estimatedTime,omitempty"`
}

// UISettings holds presentation-layer preferences.
type UISettings struct {
	SidebarCollapsed   bool   `json:"sidebarCollapsed"`
	TaskViewMode       string `json:"taskViewMode"`
	ShowCompletedTasks bool   `json:"showCompletedTasks"`
	CompactMode        bool   `json:"compactMode"`
}

// ProductivitySettings holds goal and working-hours preferences.
type ProductivitySettings struct {
	DailyGoal      int          `json:"dailyGoal"`
	WorkingHours   WorkingHours `json:"workingHours"`
	BreakReminders bool         `json:"breakReminders"`
}

// WorkingHours is a HH:MM clock-time range.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DefaultSettings returns the record a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:       "light",
		DefaultView: "dashboard",
		AutoSave:    true,
		Notifications: NotificationSettings{
			Enabled:   true,
			Desktop:   true,
			Sound:     false,
			Reminders: true,
		},
		TaskDefaults: TaskDefaults{
			Priority: PriorityMedium,
			Category: "Personal",
		},
		UI: UISettings{
			SidebarCollapsed:   false,
			TaskViewMode:       "list",
			ShowCompletedTasks: true,
			CompactMode:        false,
		},
		Productivity: ProductivitySettings{
			DailyGoal: 5,
			WorkingHours: WorkingHours{
				Start: "09:00",
				End:   "17:00",
			},
			BreakReminders: true,
		},
	}
}
