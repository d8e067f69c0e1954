package domain

// TemplateScratch resets the profile to the language defaults.
const TemplateScratch = "scratch"

// InitialConfig returns the full default profile for lang. Every call
// returns a fresh copy.
func InitialConfig(lang Language) ProfileConfig {
	lang = ParseLanguage(string(lang))
	theme := FontThemes[DefaultFontTheme(lang)]

	cfg := ProfileConfig{
		TemplateID: TemplateScratch,
		Services:   defaultServices(lang),
		Lounge:     defaultLounge(lang),
		Sections:   append([]SectionID(nil), AllSections...),
		SectionVisibility: map[SectionID]bool{
			SectionAbout:    true,
			SectionServices: true,
			SectionLounge:   true,
		},
		Styles: ProfileStyles{
			FontTheme:         theme.Key,
			HeadingFont:       theme.HeadingFont,
			BodyFont:          theme.BodyFont,
			PrimaryColor:      "#4F46E5",
			SecondaryColor:    "#F59E0B",
			BackgroundColor:   "#FFFFFF",
			BackgroundOpacity: "100",
		},
	}

	if lang == LanguageHE {
		cfg.Name = "השם שלך"
		cfg.Title = "מאמנת עסקית"
		cfg.Bio = "אני עוזרת לבעלי עסקים קטנים לבנות הרגלי עבודה שמחזיקים לאורך זמן."
	} else {
		cfg.Name = "Your Name"
		cfg.Title = "Business Coach"
		cfg.Bio = "I help small business owners build work habits that last."
	}
	return cfg
}

func defaultServices(lang Language) []Service {
	if lang == LanguageHE {
		return []Service{
			{ID: 1, Title: "ליווי אישי", Description: "פגישות אחד על אחד המותאמות למטרות שלך."},
			{ID: 2, Title: "סדנאות", Description: "סדנאות קבוצתיות לצוותים ולעסקים."},
			{ID: 3, Title: "קורס דיגיטלי", Description: "תוכנית בקצב שלך עם תרגילים מעשיים."},
		}
	}
	return []Service{
		{ID: 1, Title: "1:1 Coaching", Description: "Personal sessions tailored to your goals."},
		{ID: 2, Title: "Workshops", Description: "Group workshops for teams and businesses."},
		{ID: 3, Title: "Online Course", Description: "A self-paced program with practical exercises."},
	}
}

func defaultLounge(lang Language) Lounge {
	if lang == LanguageHE {
		return Lounge{
			Headline:          "הלאונג׳",
			Description:       "טיפים, סיפורים ועדכונים מהעבודה שלי",
			SearchPlaceholder: "חיפוש פוסטים...",
			Posts: []LoungePost{
				{
					ID: "post-1", Title: "שלושה הרגלים לבוקר פרודוקטיבי",
					Body:       "איך להתחיל את היום עם מיקוד, בלי לקום בחמש בבוקר.",
					Tags:       []string{"הרגלים", "פרודוקטיביות"},
					AuthorName: "השם שלך", AuthorRole: "מאמנת עסקית",
					CreatedAt: "2024-01-15T09:00:00Z", Likes: 24, Saves: 8, Pinned: true,
				},
				{
					ID: "post-2", Title: "מה למדתי מהלקוח הראשון שלי",
					Body:       "הטעויות שעשיתי בחודש הראשון ומה הייתי עושה אחרת.",
					Tags:       []string{"סיפורים"},
					AuthorName: "השם שלך", AuthorRole: "מאמנת עסקית",
					CreatedAt: "2024-02-03T12:30:00Z", Likes: 17, Saves: 5,
				},
				{
					ID: "post-3", Title: "תמחור שירותים בלי פחד",
					Body:       "מסגרת פשוטה לקביעת מחיר שמשקף את הערך שלך.",
					Tags:       []string{"תמחור", "עסקים"},
					AuthorName: "השם שלך", AuthorRole: "מאמנת עסקית",
					CreatedAt: "2024-03-10T18:15:00Z", Likes: 31, Saves: 14,
				},
			},
		}
	}
	return Lounge{
		Headline:          "The Lounge",
		Description:       "Tips, stories and updates from my practice",
		SearchPlaceholder: "Search posts...",
		Posts: []LoungePost{
			{
				ID: "post-1", Title: "Three habits for a productive morning",
				Body:       "How to start the day focused without waking up at 5am.",
				Tags:       []string{"habits", "productivity"},
				AuthorName: "Your Name", AuthorRole: "Business Coach",
				CreatedAt: "2024-01-15T09:00:00Z", Likes: 24, Saves: 8, Pinned: true,
			},
			{
				ID: "post-2", Title: "What my first client taught me",
				Body:       "The mistakes I made in month one and what I would do differently.",
				Tags:       []string{"stories"},
				AuthorName: "Your Name", AuthorRole: "Business Coach",
				CreatedAt: "2024-02-03T12:30:00Z", Likes: 17, Saves: 5,
			},
			{
				ID: "post-3", Title: "Pricing your services without fear",
				Body:       "A simple framework for a price that reflects your value.",
				Tags:       []string{"pricing", "business"},
				AuthorName: "Your Name", AuthorRole: "Business Coach",
				CreatedAt: "2024-03-10T18:15:00Z", Likes: 31, Saves: 14,
			},
		},
	}
}
