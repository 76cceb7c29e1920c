package save

import (
	"strconv"
	"time"

	"github.com/entrhq/cookiebot/pkg/save/format"
)

var gameVersionFormat format.Format[GameVersion] = format.NewRecord("game_version", ";", []format.FieldSpec[GameVersion]{
	format.Field("version", format.String(), func(v *GameVersion) *string { return &v.Version }),
})

var appearanceFormat format.Format[Appearance] = format.NewRecord("appearance", ",", []format.FieldSpec[Appearance]{
	format.Field("hair", format.Int(), func(a *Appearance) *int { return &a.Hair }),
	format.Field("hair_color", format.Int(), func(a *Appearance) *int { return &a.HairColor }),
	format.Field("skin_color", format.Int(), func(a *Appearance) *int { return &a.SkinColor }),
	format.Field("head_shape", format.Int(), func(a *Appearance) *int { return &a.HeadShape }),
	format.Field("face", format.Int(), func(a *Appearance) *int { return &a.Face }),
	format.Field("accessory1", format.Int(), func(a *Appearance) *int { return &a.Accessory1 }),
	format.Field("accessory2", format.Int(), func(a *Appearance) *int { return &a.Accessory2 }),
})

var runDetailsFormat format.Format[RunDetails] = format.NewRecord("run_details", ";", []format.FieldSpec[RunDetails]{
	format.Field("ascension_start", format.Timestamp(), func(r *RunDetails) *time.Time { return &r.AscensionStart }),
	format.Field("legacy_start", format.Timestamp(), func(r *RunDetails) *time.Time { return &r.LegacyStart }),
	format.Field("last_opened", format.Timestamp(), func(r *RunDetails) *time.Time { return &r.LastOpened }),
	format.Field("bakery_name", format.String(), func(r *RunDetails) *string { return &r.BakeryName }),
	format.Field("seed", format.String(), func(r *RunDetails) *string { return &r.Seed }),
	format.Field("appearance", appearanceFormat, func(r *RunDetails) *Appearance { return &r.Appearance }),
})

func pref(name string, field func(*Preferences) *bool) format.FieldSpec[Preferences] {
	return format.Field(name, format.Bool(), field)
}

// preferencesFormat reads one character per flag.
var preferencesFormat format.Format[Preferences] = format.NewRecord("preferences", "", []format.FieldSpec[Preferences]{
	pref("particles", func(p *Preferences) *bool { return &p.Particles }),
	pref("numbers", func(p *Preferences) *bool { return &p.Numbers }),
	pref("autosave", func(p *Preferences) *bool { return &p.Autosave }),
	pref("autoupdate", func(p *Preferences) *bool { return &p.Autoupdate }),
	pref("milk", func(p *Preferences) *bool { return &p.Milk }),
	pref("fancy", func(p *Preferences) *bool { return &p.Fancy }),
	pref("warn", func(p *Preferences) *bool { return &p.Warn }),
	pref("cursors", func(p *Preferences) *bool { return &p.Cursors }),
	pref("focus", func(p *Preferences) *bool { return &p.Focus }),
	pref("format", func(p *Preferences) *bool { return &p.Format }),
	pref("notifs", func(p *Preferences) *bool { return &p.Notifs }),
	pref("wobbly", func(p *Preferences) *bool { return &p.Wobbly }),
	pref("monospace", func(p *Preferences) *bool { return &p.Monospace }),
	pref("filters", func(p *Preferences) *bool { return &p.Filters }),
	pref("cookie_sound", func(p *Preferences) *bool { return &p.CookieSound }),
	pref("crates", func(p *Preferences) *bool { return &p.Crates }),
	pref("show_backup_warning", func(p *Preferences) *bool { return &p.ShowBackupWarning }),
	pref("extra_buttons", func(p *Preferences) *bool { return &p.ExtraButtons }),
	pref("ask_lumps", func(p *Preferences) *bool { return &p.AskLumps }),
	pref("custom_grandmas", func(p *Preferences) *bool { return &p.CustomGrandmas }),
	pref("timeout", func(p *Preferences) *bool { return &p.Timeout }),
	pref("cloud_save", func(p *Preferences) *bool { return &p.CloudSave }),
	pref("bg_music", func(p *Preferences) *bool { return &p.BgMusic }),
	pref("not_scary", func(p *Preferences) *bool { return &p.NotScary }),
	pref("fullscreen", func(p *Preferences) *bool { return &p.Fullscreen }),
	pref("screen_reader", func(p *Preferences) *bool { return &p.ScreenReader }),
	pref("discord_presence", func(p *Preferences) *bool { return &p.DiscordPresence }),
})

func permanentUpgrade(i int) format.FieldSpec[MiscellaneousGameData] {
	return format.Field("permanent_upgrade"+strconv.Itoa(i+1), format.NoneAsNegative(),
		func(m *MiscellaneousGameData) **uint64 { return &m.PermanentUpgrades[i] })
}

var miscellaneousGameDataFormat format.Format[MiscellaneousGameData] = format.NewRecord("miscellaneous_game_data", ";", []format.FieldSpec[MiscellaneousGameData]{
	format.Field("cookies_in_bank", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.CookiesInBank }),
	format.Field("cookies_baked", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.CookiesBaked }),
	format.Field("cookie_clicks", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.CookieClicks }),
	format.Field("total_golden_cookie_clicks", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.TotalGoldenCookieClicks }),
	format.Field("hand_made_cookies", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.HandMadeCookies }),
	format.Field("total_golden_cookies_missed", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.TotalGoldenCookiesMissed }),
	format.Field("background_type", format.Int(), func(m *MiscellaneousGameData) *int { return &m.BackgroundType }),
	format.Field("milk_type", format.Int(), func(m *MiscellaneousGameData) *int { return &m.MilkType }),
	format.Field("cookies_forfeited_by_ascending", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.CookiesForfeitedByAscending }),
	format.Field("grandmapocalypse_stage", format.Int(), func(m *MiscellaneousGameData) *int { return &m.GrandmapocalypseStage }),
	format.Field("elder_pledges_made", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.ElderPledgesMade }),
	format.Field("time_left_in_elder_pledge", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.TimeLeftInElderPledge }),
	format.Field("currently_researching", format.Int(), func(m *MiscellaneousGameData) *int { return &m.CurrentlyResearching }),
	format.Field("time_left_in_research", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.TimeLeftInResearch }),
	format.Field("ascensions", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.Ascensions }),
	format.Field("golden_cookie_clicks_this_run", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.GoldenCookieClicksThisRun }),
	format.Field("cookies_sucked_by_wrinklers", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.CookiesSuckedByWrinklers }),
	format.Field("wrinklers_popped", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.WrinklersPopped }),
	format.Field("santa_level", format.Int(), func(m *MiscellaneousGameData) *int { return &m.SantaLevel }),
	format.Field("reindeer_clicked", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.ReindeerClicked }),
	format.Field("time_left_in_season", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.TimeLeftInSeason }),
	format.Field("season_switcher_uses", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.SeasonSwitcherUses }),
	format.Field("current_season", format.NoneAsEmpty(format.String()), func(m *MiscellaneousGameData) **string { return &m.CurrentSeason }),
	format.Field("cookies_in_wrinklers", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.CookiesInWrinklers }),
	format.Field("number_of_wrinklers", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.NumberOfWrinklers }),
	format.Field("prestige_level", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.PrestigeLevel }),
	format.Field("heavenly_chips", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.HeavenlyChips }),
	format.Field("heavenly_chips_spent", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.HeavenlyChipsSpent }),
	format.Field("heavenly_cookies", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.HeavenlyCookies }),
	format.Field("ascension_mode", format.Int(), func(m *MiscellaneousGameData) *int { return &m.AscensionMode }),
	permanentUpgrade(0),
	permanentUpgrade(1),
	permanentUpgrade(2),
	permanentUpgrade(3),
	permanentUpgrade(4),
	format.Field("dragon_level", format.Int(), func(m *MiscellaneousGameData) *int { return &m.DragonLevel }),
	format.Field("dragon_aura", format.Int(), func(m *MiscellaneousGameData) *int { return &m.DragonAura }),
	format.Field("dragon_aura2", format.Int(), func(m *MiscellaneousGameData) *int { return &m.DragonAura2 }),
	format.Field("chime_type", format.Int(), func(m *MiscellaneousGameData) *int { return &m.ChimeType }),
	format.Field("volume", format.Int(), func(m *MiscellaneousGameData) *int { return &m.Volume }),
	format.Field("shiny_wrinklers", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.ShinyWrinklers }),
	format.Field("cookies_in_shiny_wrinklers", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.CookiesInShinyWrinklers }),
	format.Field("sugar_lumps", format.NoneAsNegative(), func(m *MiscellaneousGameData) **uint64 { return &m.SugarLumps }),
	format.Field("total_sugar_lumps", format.NoneAsNegative(), func(m *MiscellaneousGameData) **uint64 { return &m.TotalSugarLumps }),
	format.Field("lump_start", format.Timestamp(), func(m *MiscellaneousGameData) *time.Time { return &m.LumpStart }),
	format.Field("last_lump_refill", format.Timestamp(), func(m *MiscellaneousGameData) *time.Time { return &m.LastLumpRefill }),
	format.Field("current_lump_type", format.Int(), func(m *MiscellaneousGameData) *int { return &m.CurrentLumpType }),
	format.Field("vault", format.List(",", format.Int()), func(m *MiscellaneousGameData) *[]int { return &m.Vault }),
	format.Field("heralds", format.Uint64(), func(m *MiscellaneousGameData) *uint64 { return &m.Heralds }),
	format.Field("golden_cookie_fortune", format.Bool(), func(m *MiscellaneousGameData) *bool { return &m.GoldenCookieFortune }),
	format.Field("cps_fortune", format.Bool(), func(m *MiscellaneousGameData) *bool { return &m.CPSFortune }),
	format.Field("highest_raw_cps", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.HighestRawCPS }),
	format.Field("music_volume", format.Int(), func(m *MiscellaneousGameData) *int { return &m.MusicVolume }),
	format.Field("cookies_sent", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.CookiesSent }),
	format.Field("cookies_received", format.Float64(), func(m *MiscellaneousGameData) *float64 { return &m.CookiesReceived }),
	format.Reserved[MiscellaneousGameData]("reserved", 3),
}, format.WithTrailingSeparator())

func buildingEntryFormat[M any](minigame format.Format[M]) format.Format[BuildingEntry[M]] {
	return format.NewRecord("building", ",", []format.FieldSpec[BuildingEntry[M]]{
		format.Field("amount_owned", format.Uint64(), func(b *BuildingEntry[M]) *uint64 { return &b.AmountOwned }),
		format.Field("amount_bought", format.Uint64(), func(b *BuildingEntry[M]) *uint64 { return &b.AmountBought }),
		format.Field("cookies_produced", format.Float64(), func(b *BuildingEntry[M]) *float64 { return &b.CookiesProduced }),
		format.Field("level", format.Int(), func(b *BuildingEntry[M]) *int { return &b.Level }),
		format.Field("minigame_data", minigame, func(b *BuildingEntry[M]) *M { return &b.MinigameData }),
		format.Field("muted", format.Bool(), func(b *BuildingEntry[M]) *bool { return &b.Muted }),
		format.Field("highest_amount", format.Uint64(), func(b *BuildingEntry[M]) *uint64 { return &b.HighestAmount }),
	})
}

var (
	buildingFormat = buildingEntryFormat(format.NoneAsEmpty(format.String()))
	farmFormat     = buildingEntryFormat(format.NoneAsEmpty(gardenFormat))
)

func building(name string, field func(*BuildingData) *Building) format.FieldSpec[BuildingData] {
	return format.Field(name, buildingFormat, field)
}

var buildingDataFormat format.Format[BuildingData] = format.NewRecord("building_data", ";", []format.FieldSpec[BuildingData]{
	building("cursors", func(b *BuildingData) *Building { return &b.Cursors }),
	building("grandmas", func(b *BuildingData) *Building { return &b.Grandmas }),
	format.Field("farms", farmFormat, func(b *BuildingData) *BuildingEntry[*Garden] { return &b.Farms }),
	building("mines", func(b *BuildingData) *Building { return &b.Mines }),
	building("factories", func(b *BuildingData) *Building { return &b.Factories }),
	building("banks", func(b *BuildingData) *Building { return &b.Banks }),
	building("temples", func(b *BuildingData) *Building { return &b.Temples }),
	building("wizard_towers", func(b *BuildingData) *Building { return &b.WizardTowers }),
	building("shipments", func(b *BuildingData) *Building { return &b.Shipments }),
	building("alchemy_labs", func(b *BuildingData) *Building { return &b.AlchemyLabs }),
	building("portals", func(b *BuildingData) *Building { return &b.Portals }),
	building("time_machines", func(b *BuildingData) *Building { return &b.TimeMachines }),
	building("antimatter_condensers", func(b *BuildingData) *Building { return &b.AntimatterCondensers }),
	building("prisms", func(b *BuildingData) *Building { return &b.Prisms }),
	building("chancemakers", func(b *BuildingData) *Building { return &b.Chancemakers }),
	building("fractal_engines", func(b *BuildingData) *Building { return &b.FractalEngines }),
	building("javascript_consoles", func(b *BuildingData) *Building { return &b.JavascriptConsoles }),
	building("idleverses", func(b *BuildingData) *Building { return &b.Idleverses }),
	building("cortex_bakers", func(b *BuildingData) *Building { return &b.CortexBakers }),
	building("yous", func(b *BuildingData) *Building { return &b.Yous }),
}, format.WithTrailingSeparator())

// saveFormat is the top-level layout. The slot after the version is
// unused by the game and always written empty.
var saveFormat format.Format[Save] = format.NewRecord("save", "|", []format.FieldSpec[Save]{
	format.Field("game_version", gameVersionFormat, func(s *Save) *GameVersion { return &s.GameVersion }),
	format.Field("run_details", runDetailsFormat, func(s *Save) *RunDetails { return &s.RunDetails }).Skip(1),
	format.Field("preferences", preferencesFormat, func(s *Save) *Preferences { return &s.Preferences }),
	format.Field("miscellaneous_game_data", miscellaneousGameDataFormat, func(s *Save) *MiscellaneousGameData { return &s.MiscellaneousGameData }),
	format.Field("building_data", buildingDataFormat, func(s *Save) *BuildingData { return &s.BuildingData }),
	format.Field("upgrades", upgradesFormat, func(s *Save) *[]Upgrade { return &s.Upgrades }),
	format.Field("achievements", format.BoolStream(), func(s *Save) *[]bool { return &s.Achievements }),
	format.Field("buffs", buffsFormat, func(s *Save) *[]GameBuff { return &s.Buffs }),
	format.Field("mod_data", format.String(), func(s *Save) *string { return &s.ModData }),
})
