package catalog

var defaultAreas = []BodyArea{
	{
		ID:   "head",
		Name: "Head",
		Symptoms: []Symptom{
			{ID: "headache", Name: "Headache"},
			{ID: "dizziness", Name: "Dizziness"},
			{ID: "vision_changes", Name: "Vision changes"},
			{ID: "facial_pain", Name: "Facial pain"},
		},
	},
	{
		ID:   "chest",
		Name: "Chest",
		Symptoms: []Symptom{
			{ID: "chest_pain", Name: "Chest pain"},
			{ID: "shortness_of_breath", Name: "Shortness of breath"},
			{ID: "palpitations", Name: "Heart palpitations"},
			{ID: "cough", Name: "Cough"},
		},
	},
	{
		ID:   "abdomen",
		Name: "Abdomen",
		Symptoms: []Symptom{
			{ID: "abdominal_pain", Name: "Abdominal pain"},
			{ID: "nausea", Name: "Nausea"},
			{ID: "vomiting", Name: "Vomiting"},
			{ID: "diarrhea", Name: "Diarrhea"},
			{ID: "constipation", Name: "Constipation"},
		},
	},
	{
		ID:   "musculoskeletal",
		Name: "Joints & Muscles",
		Symptoms: []Symptom{
			{ID: "joint_pain", Name: "Joint pain"},
			{ID: "muscle_pain", Name: "Muscle pain"},
			{ID: "swelling", Name: "Swelling"},
			{ID: "limited_mobility", Name: "Limited mobility"},
		},
	},
	{
		ID:   "general",
		Name: "General",
		Symptoms: []Symptom{
			{ID: "fever", Name: "Fever"},
			{ID: "fatigue", Name: "Fatigue"},
			{ID: "weight_loss", Name: "Weight loss"},
			{ID: "sleep_issues", Name: "Sleep issues"},
		},
	},
}

// Order matters: ties in the predictor resolve first-defined-first.
var defaultConditions = []HealthCondition{
	{
		ID:          "common_cold",
		Name:        "Common Cold",
		Description: "A viral infection of the upper respiratory tract that primarily affects the nose and throat.",
		Symptoms:    []string{"cough", "fever", "headache", "fatigue"},
		Urgency:     UrgencyLow,
	},
	{
		ID:          "migraine",
		Name:        "Migraine",
		Description: "A severe, recurring headache, often accompanied by other symptoms like nausea and sensitivity to light.",
		Symptoms:    []string{"headache", "vision_changes", "nausea", "fatigue"},
		Urgency:     UrgencyMedium,
	},
	{
		ID:          "gastroenteritis",
		Name:        "Gastroenteritis",
		Description: "Inflammation of the stomach and intestines, typically resulting from a viral or bacterial infection.",
		Symptoms:    []string{"abdominal_pain", "nausea", "vomiting", "diarrhea", "fever"},
		Urgency:     UrgencyMedium,
	},
	{
		ID:          "appendicitis",
		Name:        "Appendicitis",
		Description: "Inflammation of the appendix that can cause severe pain and requires immediate medical attention.",
		Symptoms:    []string{"abdominal_pain", "nausea", "vomiting", "fever"},
		Urgency:     UrgencyHigh,
	},
	{
		ID:          "heart_attack",
		Name:        "Heart Attack",
		Description: "A serious medical emergency where blood flow to part of the heart is blocked, potentially causing damage to heart muscle.",
		Symptoms:    []string{"chest_pain", "shortness_of_breath", "nausea", "fatigue", "dizziness"},
		Urgency:     UrgencyHigh,
	},
	{
		ID:          "tension_headache",
		Name:        "Tension Headache",
		Description: "A common type of headache that feels like pressure or tightness around the head.",
		Symptoms:    []string{"headache", "fatigue", "sleep_issues"},
		Urgency:     UrgencyLow,
	},
	{
		ID:          "bronchitis",
		Name:        "Bronchitis",
		Description: "Inflammation of the bronchial tubes which carry air to and from the lungs.",
		Symptoms:    []string{"cough", "shortness_of_breath", "chest_pain", "fatigue", "fever"},
		Urgency:     UrgencyMedium,
	},
	{
		ID:          "arthritis",
		Name:        "Arthritis",
		Description: "Inflammation of one or more joints, causing pain and stiffness that can worsen with age.",
		Symptoms:    []string{"joint_pain", "swelling", "limited_mobility", "fatigue"},
		Urgency:     UrgencyMedium,
	},
	{
		ID:          "food_poisoning",
		Name:        "Food Poisoning",
		Description: "Illness caused by eating contaminated food containing infectious organisms or toxins.",
		Symptoms:    []string{"abdominal_pain", "nausea", "vomiting", "diarrhea", "fever"},
		Urgency:     UrgencyMedium,
	},
	{
		ID:          "sinusitis",
		Name:        "Sinusitis",
		Description: "Inflammation or swelling of the tissue lining the sinuses that can cause facial pain and pressure.",
		Symptoms:    []string{"facial_pain", "headache", "cough", "fever"},
		Urgency:     UrgencyLow,
	},
}

var builtin = MustNew(defaultAreas, defaultConditions)

// Default returns the built-in catalog.
func Default() *Catalog {
	return builtin
}
