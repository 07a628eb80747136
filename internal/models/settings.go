package models

import "fmt"

// HistoryEntry is one line of the union's history page.
type HistoryEntry struct {
	Year  string `json:"year"`
	Event string `json:"event"`
}

// Office is a union office location.
type Office struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
}

// SiteSettings is the singleton branding/content record edited wholesale
// from the admin console.
type SiteSettings struct {
	SiteName     string         `json:"siteName"`
	HeroTitle    string         `json:"heroTitle"`
	HeroSubtitle string         `json:"heroSubtitle"`
	HeroImageURL string         `json:"heroImageUrl,omitempty"`
	Greeting     string         `json:"greeting,omitempty"`
	History      []HistoryEntry `json:"history"`
	Offices      []Office       `json:"offices"`
	Missions     []string       `json:"missions"`
}

// DefaultSettings returns the built-in first-run settings.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		SiteName:     "우리노동조합",
		HeroTitle:    "함께하는 우리, 더 나은 일터",
		HeroSubtitle: "조합원과 함께 걸어온 길, 앞으로도 함께 갑니다.",
		Greeting:     "우리노동조합 홈페이지를 찾아주셔서 감사합니다.",
		History: []HistoryEntry{
			{Year: "2019", Event: "노동조합 설립 총회"},
			{Year: "2021", Event: "단체협약 체결"},
		},
		Offices: []Office{
			{Name: "본부 사무실", Address: "서울특별시 중구"},
		},
		Missions: []string{
			"조합원 권익 보호",
			"안전한 일터 만들기",
			"연대와 상생",
		},
	}
}

// ValidateSettings rejects a settings record with no site name; everything
// else is optional content.
func ValidateSettings(s SiteSettings) error {
	if s.SiteName == "" {
		return fmt.Errorf("settings: empty site name")
	}
	return nil
}
