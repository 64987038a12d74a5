package ui

import "charm.land/lipgloss/v2"

type Theme struct {
	Header      lipgloss.Style
	Status      lipgloss.Style
	Title       lipgloss.Style
	PanelBorder lipgloss.Style
	PanelBody   lipgloss.Style
	Accent      lipgloss.Style
	Pass        lipgloss.Style
	Fail        lipgloss.Style
	Pending     lipgloss.Style
	Muted       lipgloss.Style

	Prefix      lipgloss.Style
	CellEmpty   lipgloss.Style
	CellFilled  lipgloss.Style
	CellFocused lipgloss.Style
}

func DefaultTheme() Theme {
	return ThemeForVariant("modern_arcade")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "cozy_clean":
		return cozyCleanTheme()
	case "retro_terminal":
		return retroTerminalTheme()
	default:
		return modernArcadeTheme()
	}
}

func modernArcadeTheme() Theme {
	amber := lipgloss.Color("#FFC857")
	mint := lipgloss.Color("#67F0A8")
	brick := lipgloss.Color("#FF6F91")
	ink := lipgloss.Color("#0E1420")
	slate := lipgloss.Color("#1B2740")
	powder := lipgloss.Color("#EAF2FF")
	blue := lipgloss.Color("#5EEBFF")
	border := lipgloss.Color("#4B5F8A")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(ink).
			Foreground(powder).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(slate).
			Foreground(powder).
			Padding(0, 1),
		Title:       lipgloss.NewStyle().Foreground(blue).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(border),
		PanelBody:   lipgloss.NewStyle().Foreground(powder),
		Accent:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		Pass:        lipgloss.NewStyle().Foreground(mint).Bold(true),
		Fail:        lipgloss.NewStyle().Foreground(brick).Bold(true),
		Pending:     lipgloss.NewStyle().Foreground(amber),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6")),
		Prefix:      lipgloss.NewStyle().Foreground(powder).Bold(true),
		CellEmpty:   lipgloss.NewStyle().Foreground(border),
		CellFilled:  lipgloss.NewStyle().Foreground(amber).Underline(true),
		CellFocused: lipgloss.NewStyle().Background(blue).Foreground(ink).Bold(true),
	}
}

func cozyCleanTheme() Theme {
	honey := lipgloss.Color("#F2B872")
	sage := lipgloss.Color("#80C4A3")
	rose := lipgloss.Color("#D17A86")
	night := lipgloss.Color("#1E2430")
	slate := lipgloss.Color("#30394A")
	paper := lipgloss.Color("#F4F6FA")
	sky := lipgloss.Color("#86B6F6")

	return Theme{
		Header:      lipgloss.NewStyle().Background(night).Foreground(paper).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(slate).Foreground(paper).Padding(0, 1),
		Title:       lipgloss.NewStyle().Foreground(honey).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(slate),
		PanelBody:   lipgloss.NewStyle().Foreground(paper),
		Accent:      lipgloss.NewStyle().Foreground(sky).Bold(true),
		Pass:        lipgloss.NewStyle().Foreground(sage).Bold(true),
		Fail:        lipgloss.NewStyle().Foreground(rose).Bold(true),
		Pending:     lipgloss.NewStyle().Foreground(honey),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#A3ACC2")),
		Prefix:      lipgloss.NewStyle().Foreground(paper),
		CellEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4A5972")),
		CellFilled:  lipgloss.NewStyle().Foreground(honey).Underline(true),
		CellFocused: lipgloss.NewStyle().Background(sky).Foreground(night),
	}
}

func retroTerminalTheme() Theme {
	lime := lipgloss.Color("#9CF5A2")
	amber := lipgloss.Color("#E5D47A")
	red := lipgloss.Color("#FF6B6B")
	deep := lipgloss.Color("#07150A")
	forest := lipgloss.Color("#12301A")
	glow := lipgloss.Color("#C5F7C4")

	return Theme{
		Header:      lipgloss.NewStyle().Background(deep).Foreground(glow).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(forest).Foreground(glow).Padding(0, 1),
		Title:       lipgloss.NewStyle().Foreground(amber).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(forest),
		PanelBody:   lipgloss.NewStyle().Foreground(glow),
		Accent:      lipgloss.NewStyle().Foreground(lime).Bold(true),
		Pass:        lipgloss.NewStyle().Foreground(lime).Bold(true),
		Fail:        lipgloss.NewStyle().Foreground(red).Bold(true),
		Pending:     lipgloss.NewStyle().Foreground(amber),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),
		Prefix:      lipgloss.NewStyle().Foreground(glow).Bold(true),
		CellEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1F5C2F")),
		CellFilled:  lipgloss.NewStyle().Foreground(amber),
		CellFocused: lipgloss.NewStyle().Reverse(true),
	}
}
