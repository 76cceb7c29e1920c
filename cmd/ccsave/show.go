package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/cookiebot/pkg/save"
	"github.com/entrhq/cookiebot/pkg/save/format"
)

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	mutedGray  = lipgloss.Color("#6B7280")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Width(26)

	valueStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)

// renderSummary renders the headline numbers of a save in a bordered box.
func renderSummary(s *save.Save) string {
	misc := s.MiscellaneousGameData

	var content strings.Builder
	content.WriteString(titleStyle.Render(s.RunDetails.BakeryName))
	content.WriteString("\n\n")

	row := func(label, value string) {
		content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(label), valueStyle.Render(value)))
		content.WriteString("\n")
	}
	row("Game version", s.GameVersion.Version)
	row("Run started", s.RunDetails.AscensionStart.Format("2006-01-02 15:04"))
	row("Cookies in bank", format.FormatNumber(misc.CookiesInBank))
	row("Cookies baked", format.FormatNumber(misc.CookiesBaked))
	row("Cookies baked all time", format.FormatNumber(s.CookiesBakedAllTime()))
	row("Cookie clicks", fmt.Sprint(misc.CookieClicks))
	row("Ascensions", fmt.Sprint(misc.Ascensions))
	row("Prestige level", format.FormatNumber(misc.PrestigeLevel))
	if misc.SugarLumps != nil {
		row("Sugar lumps", fmt.Sprint(*misc.SugarLumps))
	}
	if misc.CurrentSeason != nil && *misc.CurrentSeason != "" {
		row("Season", *misc.CurrentSeason)
	}
	row("Buildings owned", fmt.Sprint(buildingsOwned(&s.BuildingData)))
	row("Upgrades bought", fmt.Sprintf("%d / %d", upgradesBought(s.Upgrades), len(s.Upgrades)))
	row("Achievements", fmt.Sprintf("%d / %d", countTrue(s.Achievements), len(s.Achievements)))
	if garden := s.BuildingData.Farms.MinigameData; garden != nil {
		row("Garden plots planted", fmt.Sprintf("%d / %d", plotsPlanted(garden), len(garden.FarmGridData)))
	}
	row("Active buffs", fmt.Sprint(len(s.Buffs)))

	return boxStyle.Render(strings.TrimSuffix(content.String(), "\n"))
}

func buildingsOwned(b *save.BuildingData) uint64 {
	owned := b.Farms.AmountOwned
	for _, other := range []*save.Building{
		&b.Cursors, &b.Grandmas, &b.Mines, &b.Factories, &b.Banks,
		&b.Temples, &b.WizardTowers, &b.Shipments, &b.AlchemyLabs, &b.Portals,
		&b.TimeMachines, &b.AntimatterCondensers, &b.Prisms, &b.Chancemakers,
		&b.FractalEngines, &b.JavascriptConsoles, &b.Idleverses, &b.CortexBakers, &b.Yous,
	} {
		owned += other.AmountOwned
	}
	return owned
}

func upgradesBought(upgrades []save.Upgrade) int {
	n := 0
	for _, u := range upgrades {
		if u.Bought {
			n++
		}
	}
	return n
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func plotsPlanted(g *save.Garden) int {
	n := 0
	for _, plot := range g.FarmGridData {
		if plot != nil {
			n++
		}
	}
	return n
}
